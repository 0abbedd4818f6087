package account

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
)

// PurchaseStore maps an email to the purchases made under it.
type PurchaseStore struct {
	store storage.Store
	log   logging.Logger
}

func NewPurchaseStore(s storage.Store, log logging.Logger) *PurchaseStore {
	return &PurchaseStore{store: s, log: log}
}

func (p *PurchaseStore) all(ctx context.Context) (map[string][]Purchase, error) {
	return load(ctx, p.store, p.log, KeyPurchases, map[string][]Purchase{})
}

// List returns the purchases of email, oldest first. It never returns nil.
func (p *PurchaseStore) List(ctx context.Context, email string) ([]Purchase, error) {
	all, err := p.all(ctx)
	if err != nil {
		return nil, err
	}
	if list := all[email]; list != nil {
		return list, nil
	}
	return []Purchase{}, nil
}

// Append records a purchase for email. The checkout flow is its only
// writer.
func (p *PurchaseStore) Append(ctx context.Context, email string, purchase any) error {
	raw, err := json.Marshal(purchase)
	if err != nil {
		return err
	}
	all, err := p.all(ctx)
	if err != nil {
		return err
	}
	all[email] = append(all[email], Purchase(raw))
	return save(ctx, p.store, KeyPurchases, all)
}

func (p *PurchaseStore) RenameKey(ctx context.Context, oldEmail, newEmail string) error {
	all, err := p.all(ctx)
	if err != nil {
		return err
	}
	list, ok := all[oldEmail]
	if !ok || oldEmail == newEmail {
		return nil
	}
	all[newEmail] = list
	delete(all, oldEmail)
	return save(ctx, p.store, KeyPurchases, all)
}

func (p *PurchaseStore) Remove(ctx context.Context, email string) error {
	all, err := p.all(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[email]; !ok {
		return nil
	}
	delete(all, email)
	return save(ctx, p.store, KeyPurchases, all)
}
