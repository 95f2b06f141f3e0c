package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statement = Statement{
	Transactions: []transaction.Transaction{
		{
			Id:              "t2",
			Description:     "Mercado, semana 1",
			Amount:          decimal.RequireFromString("40"),
			Type:            transaction.Expense,
			CategoryId:      "food",
			CardId:          "nubank",
			TransactionDate: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			Id:              "t1",
			Description:     "Salário",
			Amount:          decimal.RequireFromString("120.5"),
			Type:            transaction.Income,
			CategoryId:      "salary",
			CardId:          "removed",
			TransactionDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
	},
	Categories: []category.Category{
		{Id: "food", Name: "Alimentação"},
		{Id: "salary", Name: "Salário"},
	},
	Cards: []card.Card{{Id: "nubank", Name: "Nubank"}},
}

const expectedCsv = "Data,Descrição,Tipo,Categoria,Cartão,Valor\n" +
	"12/03/2024,\"Mercado, semana 1\",Despesa,Alimentação,Nubank,40.00\n" +
	"05/03/2024,Salário,Receita,Salário,,120.50\n" +
	"Receitas,,,,,120.50\n" +
	"Despesas,,,,,40.00\n" +
	"Saldo,,,,,80.50\n"

func TestCsvReportRendererImpl_Render(t *testing.T) {
	got, err := NewCsvReportRenderer().Render(statement)

	require.NoError(t, err)
	assert.Equal(t, expectedCsv, got)
}

func TestCsvReportRendererImpl_RenderEmpty(t *testing.T) {
	got, err := NewCsvReportRenderer().Render(Statement{})

	require.NoError(t, err)
	assert.Equal(t, "Data,Descrição,Tipo,Categoria,Cartão,Valor\n"+
		"Receitas,,,,,0.00\n"+
		"Despesas,,,,,0.00\n"+
		"Saldo,,,,,0.00\n", got)
}

type stubSource struct {
	statement Statement
}

func (s stubSource) Transactions(context.Context) ([]transaction.Transaction, error) {
	return s.statement.Transactions, nil
}

func (s stubSource) Categories(context.Context) ([]category.Category, error) {
	return s.statement.Categories, nil
}

func (s stubSource) Cards(context.Context) ([]card.Card, error) {
	return s.statement.Cards, nil
}

func TestHandler_Export(t *testing.T) {
	h := NewHandler(stubSource{statement}, NewCsvReportRenderer())
	ctx := user.WithUser(context.Background(), user.User{Id: 1})
	rr := httptest.NewRecorder()

	h.Export(rr, httptest.NewRequest("GET", "/api/transactions/export", nil).WithContext(ctx))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, expectedCsv, rr.Body.String())
}

func TestHandler_ExportWithoutUser(t *testing.T) {
	h := NewHandler(stubSource{statement}, NewCsvReportRenderer())
	rr := httptest.NewRecorder()

	h.Export(rr, httptest.NewRequest("GET", "/api/transactions/export", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
