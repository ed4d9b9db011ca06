package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

func newWorkflow(orders map[string]*entity.Order, cards []entity.GiftCard, invoices *fakeInvoiceRepo, gen billing.InvoiceGenerator) *billing.InvoiceWorkflow {
	return billing.NewInvoiceWorkflow(
		&fakeOrderRepo{orders: orders},
		&fakeGiftCardRepo{cards: cards},
		invoices,
		gen,
		zerolog.Nop(),
	)
}

func TestGetOrCreateActiveInvoice(t *testing.T) {
	invoices := newFakeInvoiceRepo()
	wf := newWorkflow(nil, nil, invoices, &fakeGenerator{})
	ctx := context.Background()

	created, err := wf.GetOrCreateActiveInvoice(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.DisplayID)
	assert.Equal(t, entity.InvoiceStatusActive, created.Status)
	assert.False(t, created.HasPDFContent())

	again, err := wf.GetOrCreateActiveInvoice(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	other, err := wf.GetOrCreateActiveInvoice(ctx, "order_2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), other.DisplayID)
}

func TestGetOrCreateActiveInvoice_TrasStaleCreaNueva(t *testing.T) {
	invoices := newFakeInvoiceRepo(sampleInvoice())
	wf := newWorkflow(nil, nil, invoices, &fakeGenerator{})
	ctx := context.Background()

	stale, err := wf.MarkInvoicesStale(ctx, "order_1")
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, entity.InvoiceStatusStale, stale[0].Status)

	fresh, err := wf.GetOrCreateActiveInvoice(ctx, "order_1")
	require.NoError(t, err)
	assert.NotEqual(t, "inv_1", fresh.ID)
	assert.Equal(t, int64(2), fresh.DisplayID)
}

func TestGetOrCreateActiveInvoice_ErrorAlCrear(t *testing.T) {
	invoices := newFakeInvoiceRepo()
	invoices.failCreate = domain.ErrConflict
	wf := newWorkflow(nil, nil, invoices, &fakeGenerator{})

	_, err := wf.GetOrCreateActiveInvoice(context.Background(), "order_1")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestMarkInvoicesStale_SinOrden(t *testing.T) {
	wf := newWorkflow(nil, nil, newFakeInvoiceRepo(), &fakeGenerator{})
	_, err := wf.MarkInvoicesStale(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestGenerateForOrder_OrdenInexistente(t *testing.T) {
	wf := newWorkflow(map[string]*entity.Order{}, nil, newFakeInvoiceRepo(), &fakeGenerator{})
	_, err := wf.GenerateForOrder(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGenerateForOrder(t *testing.T) {
	order := sampleOrder()
	order.BillingAddress.CountryCode = "nl"
	gen := &fakeGenerator{content: []byte("%PDF-fake")}
	cards := []entity.GiftCard{{ID: "gc_1", Code: "AAAA", ReferenceID: "order_1"}}
	wf := newWorkflow(map[string]*entity.Order{"order_1": order}, cards, newFakeInvoiceRepo(), gen)

	out, err := wf.GenerateForOrder(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, "invoice-1.pdf", out.Filename)
	assert.Equal(t, []byte("%PDF-fake"), out.Content)

	require.NotNil(t, gen.order)
	assert.Equal(t, "Netherlands", gen.order.BillingAddress.CountryCode)
	assert.Equal(t, "nl", order.BillingAddress.CountryCode, "la orden original no se modifica")
	assert.Empty(t, gen.order.GiftCards, "sin ítems de tarjeta regalo no se adjuntan tarjetas")

	a := out.Attachment()
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.Equal(t, "attachment", a.Disposition)
}

func TestGenerateForOrder_AdjuntaTarjetasConItemsRegalo(t *testing.T) {
	order := sampleOrder()
	order.Items[0].IsGiftCard = true
	gen := &fakeGenerator{content: []byte("%PDF")}
	cards := []entity.GiftCard{
		{ID: "gc_1", Code: "AAAA", ReferenceID: "order_1"},
		{ID: "gc_other", Code: "ZZZZ", ReferenceID: "order_9"},
	}
	wf := newWorkflow(map[string]*entity.Order{"order_1": order}, cards, newFakeInvoiceRepo(), gen)

	_, err := wf.GenerateForOrder(context.Background(), "order_1")
	require.NoError(t, err)
	require.Len(t, gen.order.GiftCards, 1)
	assert.Equal(t, "AAAA", gen.order.GiftCards[0].Code)
}

func TestGenerateForOrder_ErrorDeGeneracion(t *testing.T) {
	gen := &fakeGenerator{err: errBoom}
	wf := newWorkflow(map[string]*entity.Order{"order_1": sampleOrder()}, nil, newFakeInvoiceRepo(), gen)

	_, err := wf.GenerateForOrder(context.Background(), "order_1")
	assert.True(t, errors.Is(err, errBoom))
}
