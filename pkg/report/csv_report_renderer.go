package report

import (
	"bytes"
	"encoding/csv"

	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

var header = []string{"Data", "Descrição", "Tipo", "Categoria", "Cartão", "Valor"}

var typeLabels = map[transaction.Type]string{
	transaction.Income:  "Receita",
	transaction.Expense: "Despesa",
}

// Statement is everything a transaction export needs.
type Statement struct {
	Transactions []transaction.Transaction
	Categories   []category.Category
	Cards        []card.Card
}

type Renderer interface {
	Render(statement Statement) (string, error)
}

type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

func (r *CsvReportRendererImpl) Render(statement Statement) (string, error) {
	categoryNames := make(map[string]string, len(statement.Categories))
	for _, c := range statement.Categories {
		categoryNames[c.Id] = c.Name
	}
	cardNames := make(map[string]string, len(statement.Cards))
	for _, c := range statement.Cards {
		cardNames[c.Id] = c.Name
	}

	data := make([][]string, 0, len(statement.Transactions)+4)
	data = append(data, header)
	for _, t := range statement.Transactions {
		data = append(data, []string{
			t.TransactionDate.Format("02/01/2006"),
			t.Description,
			typeLabels[t.Type],
			categoryNames[t.CategoryId],
			cardNames[t.CardId],
			t.Amount.StringFixed(2),
		})
	}

	income, expense := transaction.Totals(statement.Transactions)
	data = append(data,
		[]string{"Receitas", "", "", "", "", income.StringFixed(2)},
		[]string{"Despesas", "", "", "", "", expense.StringFixed(2)},
		[]string{"Saldo", "", "", "", "", income.Sub(expense).StringFixed(2)},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
