package sales

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// DateLayout is the day-first layout purchase dates are printed in.
const DateLayout = "02-01-2006"

// FormatPrice prints the shortest decimal form of p: 700, 450.5.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// FormatPurchase renders one report line. The shop name is padded to 15
// characters (runes, not bytes).
func FormatPurchase(p Purchase) string {
	return fmt.Sprintf("%s | %-15s | %s | %s", p.Title, p.ShopName, FormatPrice(p.Price), p.DateSale.Format(DateLayout))
}

// NotFoundMessage is printed when no publisher matches token.
func NotFoundMessage(token string) string {
	return fmt.Sprintf("Publisher '%s' not found.", token)
}

// Header introduces the purchase lines of a found publisher.
func Header(name string) string {
	return fmt.Sprintf("Purchases of books by publisher '%s':", name)
}

// Lines returns the report as printable lines.
func (r *Report) Lines() []string {
	if !r.Found {
		return []string{NotFoundMessage(r.Token)}
	}
	lines := make([]string, 0, len(r.Purchases)+1)
	lines = append(lines, Header(r.Publisher.Name))
	for _, p := range r.Purchases {
		lines = append(lines, FormatPurchase(p))
	}
	return lines
}

// WriteText writes the report, one line each.
func WriteText(w io.Writer, r *Report) error {
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonPurchase struct {
	Title    string  `json:"title"`
	Shop     string  `json:"shop"`
	Price    float64 `json:"price"`
	DateSale string  `json:"date_sale"`
}

type jsonReport struct {
	Token     string         `json:"token"`
	Found     bool           `json:"found"`
	Publisher *jsonPublisher `json:"publisher,omitempty"`
	Purchases []jsonPurchase `json:"purchases"`
}

type jsonPublisher struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WriteJSON writes the report as an indented JSON object. Dates use
// YYYY-MM-DD.
func WriteJSON(w io.Writer, r *Report) error {
	out := jsonReport{
		Token:     r.Token,
		Found:     r.Found,
		Purchases: make([]jsonPurchase, 0, len(r.Purchases)),
	}
	if r.Found {
		out.Publisher = &jsonPublisher{ID: r.Publisher.ID, Name: r.Publisher.Name}
	}
	for _, p := range r.Purchases {
		out.Purchases = append(out.Purchases, jsonPurchase{
			Title:    p.Title,
			Shop:     p.ShopName,
			Price:    p.Price,
			DateSale: p.DateSale.Format("2006-01-02"),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
