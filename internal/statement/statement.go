package statement

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Period bounds a statement by transfer date. A zero bound is open.
type Period struct {
	From time.Time
	To   time.Time
}

// Render builds the XML account statement of an owner.
// Card numbers must already be masked.
func Render(ownerID int64, period Period, generatedAt time.Time, cards []models.CardView, transfers []models.Transfer) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Statement")
	root.CreateAttr("ownerId", strconv.FormatInt(ownerID, 10))
	root.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))

	p := root.CreateElement("Period")
	if !period.From.IsZero() {
		p.CreateAttr("from", period.From.Format(dateLayout))
	}
	if !period.To.IsZero() {
		p.CreateAttr("to", period.To.Format(dateLayout))
	}

	cardsEl := root.CreateElement("Cards")
	total := decimal.Zero
	for _, card := range cards {
		el := cardsEl.CreateElement("Card")
		el.CreateAttr("id", strconv.FormatInt(card.ID, 10))
		el.CreateElement("Number").SetText(card.Number)
		el.CreateElement("ExpirationDate").SetText(card.ExpirationDate.Format(dateLayout))
		el.CreateElement("Status").SetText(string(card.Status))
		el.CreateElement("Balance").SetText(card.Balance.StringFixed(models.MoneyScale))
		total = total.Add(card.Balance)
	}
	cardsEl.CreateAttr("totalBalance", total.StringFixed(models.MoneyScale))

	transfersEl := root.CreateElement("Transfers")
	moved := decimal.Zero
	for _, t := range transfers {
		if t.OwnerID != ownerID {
			return nil, fmt.Errorf("transfer %d belongs to owner %d", t.ID, t.OwnerID)
		}
		el := transfersEl.CreateElement("Transfer")
		el.CreateAttr("id", strconv.FormatInt(t.ID, 10))
		el.CreateElement("Date").SetText(t.Date.Format(dateLayout))
		el.CreateElement("From").SetText(strconv.FormatInt(t.CardFromID, 10))
		el.CreateElement("To").SetText(strconv.FormatInt(t.CardToID, 10))
		el.CreateElement("Amount").SetText(t.Amount.StringFixed(models.MoneyScale))
		moved = moved.Add(t.Amount)
	}
	transfersEl.CreateAttr("count", strconv.Itoa(len(transfers)))
	transfersEl.CreateAttr("totalAmount", moved.StringFixed(models.MoneyScale))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}
	return out, nil
}
