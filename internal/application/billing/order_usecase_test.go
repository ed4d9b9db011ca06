package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

func TestTransfer(t *testing.T) {
	orders := &fakeOrderRepo{orders: map[string]*entity.Order{"order_1": sampleOrder()}}
	uc := billing.NewOrderUseCase(orders, &fakeGiftCardRepo{})
	ctx := context.Background()

	_, err := uc.Transfer(ctx, "order_1", dto.TransferOrderRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Transfer(ctx, "nope", dto.TransferOrderRequest{CustomerID: "cus_1"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	out, err := uc.Transfer(ctx, "order_1", dto.TransferOrderRequest{CustomerID: "cus_1"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", out.CustomerID)
	assert.Equal(t, "20.00", out.Total)
}

func TestGiftCardLookups(t *testing.T) {
	cards := &fakeGiftCardRepo{cards: []entity.GiftCard{
		{ID: "gc_1", Code: "AAAA", ReferenceID: "order_1", LineItemID: "item_1", Value: decimal.NewFromInt(50)},
		{ID: "gc_2", Code: "BBBB", ReferenceID: "order_1", LineItemID: "item_2"},
	}}
	uc := billing.NewOrderUseCase(&fakeOrderRepo{}, cards)
	ctx := context.Background()

	byOrder, err := uc.GiftCardByOrder(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, "gc_1", byOrder.ID)
	assert.Equal(t, "50.00", byOrder.Value)

	byItem, err := uc.GiftCardByLineItem(ctx, "item_2")
	require.NoError(t, err)
	assert.Equal(t, "BBBB", byItem.Code)

	_, err = uc.GiftCardByOrder(ctx, "order_9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = uc.GiftCardByLineItem(ctx, "item_9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
