package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const DefaultKAPIBase = "https://kapi.kakao.com"

// ErrNoGrant means the member never granted talk_message at login.
var ErrNoGrant = errors.New("kakao: member has no message grant")

// Recipient is one member reachable on KakaoTalk through their own grant.
type Recipient struct {
	MemberID string
	UserID   uint
	Name     string
	Token    *oauth2.Token
}

// Sender delivers one text message to one recipient.
type Sender interface {
	Send(ctx context.Context, to Recipient, text, link string) error
}

// TokenRefresher turns a stored grant into a source that refreshes it.
type TokenRefresher interface {
	TokenSource(ctx context.Context, t *oauth2.Token) oauth2.TokenSource
}

// TokenSaver persists a grant after a refresh.
type TokenSaver interface {
	SaveKakaoToken(ctx context.Context, userID uint, t *oauth2.Token) error
}

// MessageClient posts default text templates to each member's own KakaoTalk
// chat with the member's access token. Expired tokens are refreshed and saved.
type MessageClient struct {
	BaseURL   string
	refresher TokenRefresher
	saver     TokenSaver
	http      *http.Client
}

// NewMessageClient takes a nil refresher to use stored tokens as they are.
func NewMessageClient(refresher TokenRefresher, saver TokenSaver) *MessageClient {
	return &MessageClient{
		BaseURL:   DefaultKAPIBase,
		refresher: refresher,
		saver:     saver,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type textTemplate struct {
	ObjectType  string `json:"object_type"`
	Text        string `json:"text"`
	Link        link   `json:"link"`
	ButtonTitle string `json:"button_title,omitempty"`
}

type link struct {
	WebURL       string `json:"web_url,omitempty"`
	MobileWebURL string `json:"mobile_web_url,omitempty"`
}

func (m *MessageClient) token(ctx context.Context, to Recipient) (*oauth2.Token, error) {
	if to.Token == nil || (to.Token.AccessToken == "" && to.Token.RefreshToken == "") {
		return nil, ErrNoGrant
	}
	if m.refresher == nil {
		return to.Token, nil
	}

	fresh, err := m.refresher.TokenSource(ctx, to.Token).Token()
	if err != nil {
		return nil, errors.Wrapf(err, "refresh grant of %s", to.MemberID)
	}
	if fresh.AccessToken != to.Token.AccessToken && m.saver != nil {
		if err := m.saver.SaveKakaoToken(ctx, to.UserID, fresh); err != nil {
			return nil, errors.Wrapf(err, "save grant of %s", to.MemberID)
		}
	}
	return fresh, nil
}

func (m *MessageClient) Send(ctx context.Context, to Recipient, text, linkURL string) error {
	tok, err := m.token(ctx, to)
	if err != nil {
		return err
	}

	tmpl, err := json.Marshal(textTemplate{
		ObjectType:  "text",
		Text:        text,
		Link:        link{WebURL: linkURL, MobileWebURL: linkURL},
		ButtonTitle: "자세히 보기",
	})
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("template_object", string(tmpl))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.BaseURL+"/v2/api/talk/memo/default/send", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	res, err := m.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "send to %s", to.MemberID)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("kakao message to %s: status %d", to.MemberID, res.StatusCode)
	}
	return nil
}
