package domain

import "context"

// SearcherPort is the sole inbound contract the rest of the app depends on
type SearcherPort interface {
	SearchAndPersist(ctx context.Context, ownerID string, in SearchInput) (SearchOutput, error)
}

// OffersPort exposes the persisted offer set and its user-state surface
type OffersPort interface {
	ListOffers(ctx context.Context, ownerID string) ([]Offer, error)
	ResetOffers(ctx context.Context, ownerID string) (removed int, err error)
	SetLiked(ctx context.Context, ownerID, offerID string, liked bool) error
	SetSelected(ctx context.Context, ownerID, offerID string, selected bool) error
	SetComment(ctx context.Context, ownerID, offerID string, comment *string) error
}

// Caller executes one provider's native query against its external service
type Caller interface {
	ProviderID() string
	Call(ctx context.Context, q ProviderQuery) (RawProviderResult, error)
}

// Adapter maps a SearchIntent into one provider's native query, purely
type Adapter interface {
	ProviderID() string
	BuildQuery(in SearchIntent) ProviderQuery
}

// Normalizer maps one provider's raw payload into normalized entries
// Defensive per entry: a malformed or identity-less entry is dropped and
// counted in the batch, never fatal for its siblings. An undecodable
// envelope is the only error, so the caller can report the provider as
// failed instead of quietly empty
type Normalizer interface {
	ProviderID() string
	Normalize(raw RawProviderResult) (NormalizedBatch, error)
}
