// Package repo provides the sourcing repository implementation.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dealscout/internal/modkit/repokit"
	perr "dealscout/internal/platform/errors"
	"dealscout/internal/services/sourcing/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the sourcing repository
type Storage interface {
	// UpsertOffer refreshes the normalized fields of one offer, inserting it
	// when (owner, canonical key, provider) is new. Reports whether the row
	// was inserted rather than updated. Liked, selected and comment are never
	// written here.
	UpsertOffer(ctx context.Context, o domain.Offer) (inserted bool, err error)
	ListOffers(ctx context.Context, ownerID string) ([]domain.Offer, error)
	// ResetOffers deletes the owner's offers except liked or selected ones
	ResetOffers(ctx context.Context, ownerID string) (int, error)
	SetLiked(ctx context.Context, ownerID, offerID string, liked bool) error
	SetSelected(ctx context.Context, ownerID, offerID string, selected bool) error
	SetComment(ctx context.Context, ownerID, offerID string, comment *string) error
	// SaveIntent appends one audit row per invocation
	SaveIntent(ctx context.Context, ownerID string, in domain.SearchIntent) error
}

const offerColumns = `
	id::text, owner_id, canonical_key, provider_id,
	title, price, currency, merchant, url, image_url,
	rating, review_count, score, source_payload,
	intent_version, normalized_at,
	liked, liked_at, selected, comment,
	created_at, updated_at`

// UpsertOffer implements Storage
func (s *pg) UpsertOffer(ctx context.Context, o domain.Offer) (bool, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	payload := o.SourcePayload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	sb.WriteString(`
		INSERT INTO offers
			(id, owner_id, canonical_key, provider_id,
			title, price, currency, merchant, url, image_url,
			rating, review_count, score, source_payload,
			intent_version, normalized_at, created_at, updated_at)
		VALUES (` +
		arg(uuid.NewString()) + `::uuid, ` + arg(o.OwnerID) + `, ` +
		arg(o.CanonicalKey) + `, ` + arg(o.ProviderID) + `, ` +
		arg(o.Title) + `, ` + arg(o.Price) + `, ` + arg(o.Currency) + `, ` +
		arg(o.Merchant) + `, ` + arg(o.URL) + `, ` + arg(o.ImageURL) + `, ` +
		arg(o.Rating) + `, ` + arg(o.ReviewCount) + `, ` + arg(o.Score) + `, ` +
		arg([]byte(payload)) + `::jsonb, ` +
		arg(o.IntentVersion) + `, ` + arg(o.NormalizedAt) + `, now(), now())
		ON CONFLICT (owner_id, canonical_key, provider_id) DO UPDATE SET
			title          = EXCLUDED.title,
			price          = EXCLUDED.price,
			currency       = EXCLUDED.currency,
			merchant       = EXCLUDED.merchant,
			url            = EXCLUDED.url,
			image_url      = EXCLUDED.image_url,
			rating         = EXCLUDED.rating,
			review_count   = EXCLUDED.review_count,
			score          = EXCLUDED.score,
			source_payload = EXCLUDED.source_payload,
			intent_version = EXCLUDED.intent_version,
			normalized_at  = EXCLUDED.normalized_at,
			updated_at     = now()
		RETURNING (xmax = 0)`)

	var inserted bool
	if err := s.q.QueryRow(ctx, sb.String(), args...).Scan(&inserted); err != nil {
		return false, perr.FromPostgresf(err, "upsert offer %s/%s", o.ProviderID, o.CanonicalKey)
	}
	return inserted, nil
}

// ListOffers implements Storage
func (s *pg) ListOffers(ctx context.Context, ownerID string) ([]domain.Offer, error) {
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	q := `SELECT` + offerColumns + `
		FROM offers
		WHERE owner_id = ` + arg(ownerID) + `
		ORDER BY score DESC, updated_at DESC, id`

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list offers")
	}
	defer rows.Close()

	var out []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan offer")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ResetOffers implements Storage
func (s *pg) ResetOffers(ctx context.Context, ownerID string) (int, error) {
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	tag, err := s.q.Exec(ctx, `
		DELETE FROM offers
		WHERE owner_id = `+arg(ownerID)+` AND NOT liked AND NOT selected`, args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "reset offers")
	}
	return int(tag.RowsAffected()), nil
}

// SetLiked implements Storage
func (s *pg) SetLiked(ctx context.Context, ownerID, offerID string, liked bool) error {
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	likedArg := arg(liked)
	tag, err := s.q.Exec(ctx, `
		UPDATE offers SET
			liked      = `+likedArg+`,
			liked_at   = CASE WHEN `+likedArg+` THEN now() ELSE NULL END,
			updated_at = now()
		WHERE owner_id = `+arg(ownerID)+` AND id = `+arg(offerID)+`::uuid`, args...)
	if err != nil {
		return perr.FromPostgres(err, "set liked")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("offer %s not found", offerID)
	}
	return nil
}

// SetSelected implements Storage
func (s *pg) SetSelected(ctx context.Context, ownerID, offerID string, selected bool) error {
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	tag, err := s.q.Exec(ctx, `
		UPDATE offers SET
			selected   = `+arg(selected)+`,
			updated_at = now()
		WHERE owner_id = `+arg(ownerID)+` AND id = `+arg(offerID)+`::uuid`, args...)
	if err != nil {
		return perr.FromPostgres(err, "set selected")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("offer %s not found", offerID)
	}
	return nil
}

// SetComment implements Storage
func (s *pg) SetComment(ctx context.Context, ownerID, offerID string, comment *string) error {
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	tag, err := s.q.Exec(ctx, `
		UPDATE offers SET
			comment    = `+arg(comment)+`,
			updated_at = now()
		WHERE owner_id = `+arg(ownerID)+` AND id = `+arg(offerID)+`::uuid`, args...)
	if err != nil {
		return perr.FromPostgres(err, "set comment")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("offer %s not found", offerID)
	}
	return nil
}

// SaveIntent implements Storage
func (s *pg) SaveIntent(ctx context.Context, ownerID string, in domain.SearchIntent) error {
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	keywords, err := json.Marshal(in.Keywords)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "marshal keywords")
	}
	features, err := json.Marshal(in.Features)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "marshal features")
	}

	_, err = s.q.Exec(ctx, `
		INSERT INTO search_intents
			(id, owner_id, query, category, price_min, price_max, currency,
			keywords, features, taxonomy_version, version, created_at)
		VALUES (`+
		arg(uuid.NewString())+`::uuid, `+arg(ownerID)+`, `+
		arg(in.Query)+`, `+arg(in.Category)+`, `+
		arg(in.PriceMin)+`, `+arg(in.PriceMax)+`, `+arg(in.Currency)+`, `+
		arg(keywords)+`::jsonb, `+arg(features)+`::jsonb, `+
		arg(in.TaxonomyVersion)+`, `+arg(in.Version)+`, now())`, args...)
	if err != nil {
		return perr.FromPostgres(err, "save intent")
	}
	return nil
}

func scanOffer(r repokit.Rows) (domain.Offer, error) {
	var (
		o       domain.Offer
		payload []byte
	)
	if err := r.Scan(
		&o.ID, &o.OwnerID, &o.CanonicalKey, &o.ProviderID,
		&o.Title, &o.Price, &o.Currency, &o.Merchant, &o.URL, &o.ImageURL,
		&o.Rating, &o.ReviewCount, &o.Score, &payload,
		&o.IntentVersion, &o.NormalizedAt,
		&o.Liked, &o.LikedAt, &o.Selected, &o.Comment,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return domain.Offer{}, err
	}
	o.SourcePayload = json.RawMessage(payload)
	return o, nil
}
