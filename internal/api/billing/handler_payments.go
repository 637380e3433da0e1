package billing

import (
	"net/http"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/domain/listing"

	"github.com/gin-gonic/gin"
)

type PaymentDTO struct {
	ID         uint       `json:"id"`
	MemberID   string     `json:"member_id"`
	MemberName string     `json:"member_name,omitempty"`
	Email      string     `json:"email,omitempty"`
	TierLevel  int        `json:"tier_level"`
	Purpose    string     `json:"purpose"`
	AmountKRW  int64      `json:"amount_krw"`
	Status     string     `json:"status"`
	ReceiptURL *string    `json:"receipt_url,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	CreatedAt  string     `json:"created_at"`
}

func toPaymentDTO(p billing.Payment) PaymentDTO {
	out := PaymentDTO{
		ID:         p.ID,
		MemberID:   p.MemberID,
		TierLevel:  p.TierLevel,
		Purpose:    p.Purpose,
		AmountKRW:  p.AmountKRW,
		Status:     p.Status,
		ReceiptURL: p.ReceiptURL,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt.Format("2006-01-02 15:04"),
	}
	if p.Member != nil {
		out.MemberName = p.Member.Name
		out.Email = p.Member.Email
	}
	return out
}

// GET /me/payments
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	userID, ok := httpx.MustUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	member, err := h.store.GetMemberByUserID(ctx, userID)
	if err != nil {
		if httpx.IsNotFound(err) {
			c.JSON(http.StatusOK, gin.H{"data": []PaymentDTO{}})
			return
		}
		httpx.Fail(c, err, "Member profile")
		return
	}

	payments, err := h.store.ListMemberPayments(ctx, member.ID)
	if err != nil {
		httpx.Fail(c, err, "Payments")
		return
	}
	out := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentDTO(p))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /admin/payments?status=&year=&page=&page_size=
func (h *Handler) ListAllPayments(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	page, err := h.store.ListPayments(c.Request.Context(), q)
	if err != nil {
		httpx.Fail(c, err, "Payments")
		return
	}

	out := listing.Page[PaymentDTO]{Data: make([]PaymentDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, p := range page.Data {
		out.Data = append(out.Data, toPaymentDTO(p))
	}
	c.JSON(http.StatusOK, out)
}
