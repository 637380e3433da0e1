package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePaymentStatus(t *testing.T) {
	assert.Equal(t, "paid", NormalizePaymentStatus("paid"))
	assert.Equal(t, "paid", NormalizePaymentStatus("no_payment_required"))
	assert.Equal(t, "pending", NormalizePaymentStatus(" unpaid "))
	assert.Equal(t, "pending", NormalizePaymentStatus(""))
	assert.Equal(t, "failed", NormalizePaymentStatus("expired"))
	assert.Equal(t, "weird", NormalizePaymentStatus("weird"))
}

func TestParseEvent_RejectsBadSignature(t *testing.T) {
	c := NewClient("sk_test", "whsec_test", "http://localhost")
	_, err := c.ParseEvent([]byte(`{"id":"evt_1"}`), "t=1,v1=bad")
	assert.Error(t, err)

	_, err = NewClient("sk_test", "", "").ParseEvent(nil, "")
	assert.Error(t, err)
}
