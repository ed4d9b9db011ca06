package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/document"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// ── Repositorios en memoria ───────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	mu          sync.Mutex
	byID        map[string]*entity.Invoice
	nextDisplay int64
	pdfUpdates  int
	failCreate  error
}

func newFakeInvoiceRepo(invoices ...*entity.Invoice) *fakeInvoiceRepo {
	r := &fakeInvoiceRepo{byID: map[string]*entity.Invoice{}}
	for _, inv := range invoices {
		cp := *inv
		r.byID[inv.ID] = &cp
		if inv.DisplayID > r.nextDisplay {
			r.nextDisplay = inv.DisplayID
		}
	}
	return r
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetActiveByOrderID(_ context.Context, orderID string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.byID {
		if inv.OrderID == orderID && inv.Status == entity.InvoiceStatusActive {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) NextDisplayID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextDisplay++
	return r.nextDisplay, nil
}

func (r *fakeInvoiceRepo) UpdatePDFContent(_ context.Context, id string, content json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.PDFContent = append(json.RawMessage(nil), content...)
	r.pdfUpdates++
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatusByOrderID(_ context.Context, orderID, status string) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if inv.OrderID == orderID {
			inv.Status = status
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) updates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pdfUpdates
}

type fakeConfigRepo struct {
	mu    sync.Mutex
	cfg   *entity.InvoiceConfig
	reads int
}

func (r *fakeConfigRepo) Get(context.Context) (*entity.InvoiceConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.cfg == nil {
		return nil, nil
	}
	cp := *r.cfg
	return &cp, nil
}

func (r *fakeConfigRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return 0, nil
	}
	return 1, nil
}

func (r *fakeConfigRepo) Create(_ context.Context, cfg *entity.InvoiceConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cfg
	r.cfg = &cp
	return nil
}

func (r *fakeConfigRepo) Update(_ context.Context, cfg *entity.InvoiceConfig) error {
	return r.Create(context.Background(), cfg)
}

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateCustomer(_ context.Context, orderID, customerID string) (*entity.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.CustomerID = customerID
	cp := *o
	return &cp, nil
}

type fakeGiftCardRepo struct {
	cards []entity.GiftCard
}

func (r *fakeGiftCardRepo) ListByReferenceID(_ context.Context, orderID string) ([]entity.GiftCard, error) {
	var out []entity.GiftCard
	for _, gc := range r.cards {
		if gc.ReferenceID == orderID {
			out = append(out, gc)
		}
	}
	return out, nil
}

func (r *fakeGiftCardRepo) ListByLineItemID(_ context.Context, lineItemID string) ([]entity.GiftCard, error) {
	var out []entity.GiftCard
	for _, gc := range r.cards {
		if gc.LineItemID == lineItemID {
			out = append(out, gc)
		}
	}
	return out, nil
}

// ── Colaboradores ─────────────────────────────────────────────────────────────

// textRenderer "dibuja" el documento como sus textos separados por saltos de línea.
type textRenderer struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (r *textRenderer) Render(_ context.Context, doc *document.Document) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return []byte(doc.CreatedAt.Format("20060102150405") + "\n" + strings.Join(doc.Texts(), "\n")), nil
}

// blockingRenderer se queda dentro de Render hasta que se cierra release o se
// cancela el ctx recibido.
type blockingRenderer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   int
	mu      sync.Mutex
}

func newBlockingRenderer() *blockingRenderer {
	return &blockingRenderer{started: make(chan struct{}), release: make(chan struct{})}
}

func (r *blockingRenderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	r.once.Do(func() { close(r.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.release:
		return []byte(strings.Join(doc.Texts(), "\n")), nil
	}
}

type fakeLogoFetcher struct {
	logo  *billing.Logo
	err   error
	calls int
}

func (f *fakeLogoFetcher) Fetch(context.Context, string) (*billing.Logo, error) {
	f.calls++
	return f.logo, f.err
}

type fakeNotifier struct {
	sent []entity.Notification
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, batch []entity.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, batch...)
	return nil
}

type fakeGenerator struct {
	content []byte
	err     error
	order   *entity.Order
}

func (g *fakeGenerator) GenerateInvoiceDocument(_ context.Context, order *entity.Order, _ []entity.LineItem, _ string) ([]byte, error) {
	g.order = order
	return g.content, g.err
}

var errBoom = errors.New("boom")
