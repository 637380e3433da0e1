package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// richTextFields keep safe formatting as HTML; every other string is stripped
// to plain text and stored unescaped.
var richTextFields = map[string]bool{
	"bio":          true,
	"description":  true,
	"introduction": true,
}

// rawFields are compared or hashed, never rendered.
var rawFields = map[string]bool{
	"password":     true,
	"old_password": true,
	"new_password": true,
}

// SanitizeAndCleanInputMiddleware cleans every string in a JSON body, nested
// objects and arrays included. Multipart uploads pass through untouched.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	strict := bluemonday.StrictPolicy()
	ugc := bluemonday.UGCPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		if c.Request.Body == nil || strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		var body interface{}
		if err := json.Unmarshal(buf, &body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		body = clean(body, "", strict, ugc)

		newBody, _ := json.Marshal(body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

func clean(v interface{}, key string, strict, ugc *bluemonday.Policy) interface{} {
	switch t := v.(type) {
	case string:
		if rawFields[key] {
			return t
		}
		if richTextFields[key] {
			return ugc.Sanitize(t)
		}
		return plainText(t, strict)
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = clean(inner, k, strict, ugc)
		}
		return t
	case []interface{}:
		for i, inner := range t {
			t[i] = clean(inner, key, strict, ugc)
		}
		return t
	default:
		return v
	}
}

// plainText drops markup but keeps the characters the policy escapes, so
// "Tom & Jerry" and query strings in links survive unchanged.
func plainText(s string, strict *bluemonday.Policy) string {
	return html.UnescapeString(strict.Sanitize(s))
}
