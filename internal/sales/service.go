// Package sales answers the purchases-by-publisher report.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marshallshelly/pebble-bookshop/internal/models"
	"github.com/marshallshelly/pebble-bookshop/pkg/builder"
	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
)

// ErrAmbiguousPublisher is returned when a name matches several publishers.
var ErrAmbiguousPublisher = errors.New("publisher name is ambiguous")

// Purchase is one sale of a publisher's book.
type Purchase struct {
	Title    string    `po:"title"`
	ShopName string    `po:"shop_name"`
	Price    float64   `po:"price"`
	DateSale time.Time `po:"date_sale"`
}

// Report is the outcome of FindPurchases. When Found is false only Token is
// set.
type Report struct {
	Token     string
	Found     bool
	Publisher models.Publisher
	Purchases []Purchase
}

// Service runs report queries.
type Service struct {
	db *builder.DB
}

// NewService creates a Service reading through db.
func NewService(db *builder.DB) *Service {
	return &Service{db: db}
}

// FindPublisher resolves token to a single publisher, returning
// runtime.ErrNotFound when nothing matches.
func (s *Service) FindPublisher(ctx context.Context, token string) (*models.Publisher, error) {
	lookup := ParseToken(token)
	if lookup.Overflow {
		return nil, runtime.ErrNotFound
	}

	publishers, err := publisherQuery(s.db, lookup).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up publisher: %w", err)
	}

	switch len(publishers) {
	case 0:
		return nil, runtime.ErrNotFound
	case 1:
		return &publishers[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousPublisher, token)
	}
}

// FindPurchases lists every sale of the publisher's books, oldest first.
// An unknown publisher is not an error: the report comes back with Found
// unset.
func (s *Service) FindPurchases(ctx context.Context, token string) (*Report, error) {
	report := &Report{Token: token}

	publisher, err := s.FindPublisher(ctx, token)
	if errors.Is(err, runtime.ErrNotFound) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	report.Found = true
	report.Publisher = *publisher

	purchases, err := builder.Into[Purchase](ctx, purchasesQuery(s.db, publisher.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	report.Purchases = purchases
	return report, nil
}

// publisherQuery matches by id for digit tokens and by exact name otherwise.
// Two rows are enough to detect an ambiguous name.
func publisherQuery(db *builder.DB, lookup Lookup) *builder.SelectQuery[models.Publisher] {
	cond := builder.Eq(builder.Col[models.Publisher]("Name"), lookup.Token)
	if lookup.ByID {
		cond = builder.Eq(builder.Col[models.Publisher]("ID"), lookup.ID)
	}

	return builder.Select[models.Publisher](db).
		Where(cond).
		OrderByAsc(builder.Col[models.Publisher]("ID")).
		Limit(2)
}

// purchasesQuery joins book, stock, sale and shop for one publisher.
func purchasesQuery(db *builder.DB, publisherID int) *builder.SelectQuery[models.Book] {
	var (
		bookID        = builder.Col[models.Book]("ID")
		bookTitle     = builder.Col[models.Book]("Title")
		bookPublisher = builder.Col[models.Book]("PublisherID")
		stockID       = builder.Col[models.Stock]("ID")
		stockBook     = builder.Col[models.Stock]("BookID")
		stockShop     = builder.Col[models.Stock]("ShopID")
		shopID        = builder.Col[models.Shop]("ID")
		shopName      = builder.Col[models.Shop]("Name")
		saleID        = builder.Col[models.Sale]("ID")
		saleStock     = builder.Col[models.Sale]("StockID")
		salePrice     = builder.Col[models.Sale]("Price")
		saleDate      = builder.Col[models.Sale]("DateSale")
	)

	return builder.Select[models.Book](db).
		Columns(
			bookTitle+" AS title",
			shopName+" AS shop_name",
			salePrice+" AS price",
			saleDate+" AS date_sale",
		).
		InnerJoin(builder.Table[models.Stock](), stockBook+" = "+bookID).
		InnerJoin(builder.Table[models.Sale](), saleStock+" = "+stockID).
		InnerJoin(builder.Table[models.Shop](), stockShop+" = "+shopID).
		Where(builder.Eq(bookPublisher, publisherID)).
		OrderByAsc(saleDate).
		OrderByAsc(saleID)
}
