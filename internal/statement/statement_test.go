package statement_test

import (
	"testing"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/statement"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	cards := []models.CardView{
		{ID: 1, Number: "**** **** **** 1111", OwnerID: 7, ExpirationDate: day.AddDate(2, 0, 0), Status: models.CardStatusActive, Balance: decimal.RequireFromString("70.5")},
		{ID: 2, Number: "**** **** **** 4444", OwnerID: 7, ExpirationDate: day.AddDate(1, 0, 0), Status: models.CardStatusBlocked, Balance: decimal.NewFromInt(30)},
	}
	transfers := []models.Transfer{
		{ID: 10, OwnerID: 7, CardFromID: 2, CardToID: 1, Date: day, Amount: decimal.RequireFromString("20.5")},
		{ID: 11, OwnerID: 7, CardFromID: 1, CardToID: 2, Date: day, Amount: decimal.NewFromInt(1)},
	}

	out, err := statement.Render(7, statement.Period{From: day.AddDate(0, -1, 0), To: day}, day, cards, transfers)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("Statement")
	require.NotNil(t, root)
	assert.Equal(t, "7", root.SelectAttrValue("ownerId", ""))
	assert.Equal(t, "2025-02-14", root.FindElement("./Period").SelectAttrValue("from", ""))

	numbers := doc.FindElements("//Cards/Card/Number")
	require.Len(t, numbers, 2)
	assert.Equal(t, "**** **** **** 1111", numbers[0].Text())
	assert.Equal(t, "100.50", root.FindElement("./Cards").SelectAttrValue("totalBalance", ""))

	amounts := doc.FindElements("//Transfers/Transfer/Amount")
	require.Len(t, amounts, 2)
	assert.Equal(t, "20.50", amounts[0].Text())
	assert.Equal(t, "2", root.FindElement("./Transfers").SelectAttrValue("count", ""))
	assert.Equal(t, "21.50", root.FindElement("./Transfers").SelectAttrValue("totalAmount", ""))
}

func TestRenderRejectsForeignTransfers(t *testing.T) {
	_, err := statement.Render(7, statement.Period{}, time.Now(), nil, []models.Transfer{{ID: 1, OwnerID: 8}})
	assert.Error(t, err)
}

func TestRenderOpenPeriod(t *testing.T) {
	out, err := statement.Render(7, statement.Period{}, time.Now(), nil, nil)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	period := doc.FindElement("//Period")
	require.NotNil(t, period)
	assert.Nil(t, period.SelectAttr("from"))
	assert.Equal(t, "0", doc.FindElement("//Transfers").SelectAttrValue("count", ""))
}
