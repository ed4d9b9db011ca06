package notification_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/notification"
)

type captureSender struct {
	msgs []*gomail.Message
	err  error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, m...)
	return nil
}

func raw(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func orderPlaced(to string, attachments ...entity.Attachment) entity.Notification {
	return entity.Notification{
		To:       to,
		Channel:  entity.ChannelEmail,
		Template: billing.TemplateOrderPlaced,
		Data: map[string]any{
			"order_id":   "1",
			"order_date": "4 March 2025",
			"items": []map[string]any{
				{"title": "Vase", "variant": "Blue", "quantity": int64(1), "unit_price": "€10.00", "total": "€10.00"},
			},
			"subtotal": "€10.00",
			"shipping": "€10.00",
			"total":    "€20.00",
		},
		Attachments: attachments,
	}
}

func TestSend_ConAdjunto(t *testing.T) {
	s := &captureSender{}
	d, err := notification.NewDispatcher(s, "shop@example.com", zerolog.Nop())
	require.NoError(t, err)

	pdf := entity.Attachment{Content: []byte("%PDF-1.3"), Filename: "invoice-1.pdf", ContentType: "application/pdf", Disposition: "attachment"}
	require.NoError(t, d.Send(context.Background(), []entity.Notification{orderPlaced("jane@example.com", pdf)}))
	require.Len(t, s.msgs, 1)

	assert.Equal(t, []string{"jane@example.com"}, s.msgs[0].GetHeader("To"))
	assert.Equal(t, []string{"Order confirmation #1"}, s.msgs[0].GetHeader("Subject"))

	body := raw(t, s.msgs[0])
	assert.Contains(t, body, `filename="invoice-1.pdf"`)
	assert.Contains(t, body, "application/pdf")
	assert.Contains(t, body, "Shipping")
	assert.NotContains(t, body, "Discount")
}

func TestSend_PlantillaDesconocida(t *testing.T) {
	s := &captureSender{}
	d, err := notification.NewDispatcher(s, "shop@example.com", zerolog.Nop())
	require.NoError(t, err)

	n := orderPlaced("jane@example.com")
	n.Template = "order-shipped"
	assert.Error(t, d.Send(context.Background(), []entity.Notification{n}))
	assert.Empty(t, s.msgs)
}

func TestSend_CanalNoSoportado(t *testing.T) {
	d, err := notification.NewDispatcher(&captureSender{}, "shop@example.com", zerolog.Nop())
	require.NoError(t, err)

	n := orderPlaced("jane@example.com")
	n.Channel = "sms"
	assert.Error(t, d.Send(context.Background(), []entity.Notification{n}))
}

func TestSend_ErrorSMTP(t *testing.T) {
	boom := errors.New("connection refused")
	d, err := notification.NewDispatcher(&captureSender{err: boom}, "shop@example.com", zerolog.Nop())
	require.NoError(t, err)

	err = d.Send(context.Background(), []entity.Notification{orderPlaced("jane@example.com")})
	assert.ErrorIs(t, err, boom)
}
