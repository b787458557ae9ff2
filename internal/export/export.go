package export

import (
	"fmt"
	"io"
	"time"

	"shop-tracker/internal/models"

	"github.com/xuri/excelize/v2"
)

// Nomes das planilhas geradas
const (
	SheetProducts    = "Produtos"
	SheetHistory     = "Historico"
	SheetCompetitors = "Concorrentes"
	SheetAlerts      = "Alertas"
)

const dateLayout = "2006-01-02 15:04"

// ContentType é o tipo MIME da planilha gerada
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Write gera uma planilha xlsx com o conteúdo do documento e a grava em w
func Write(w io.Writer, doc models.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetProducts); err != nil {
		return err
	}
	for _, name := range []string{SheetHistory, SheetCompetitors, SheetAlerts} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	if err := writeProducts(f, doc.TrackedProducts); err != nil {
		return fmt.Errorf("erro ao exportar produtos: %w", err)
	}
	if err := writeHistory(f, doc.TrackedProducts); err != nil {
		return fmt.Errorf("erro ao exportar histórico: %w", err)
	}
	if err := writeCompetitors(f, doc.Competitors); err != nil {
		return fmt.Errorf("erro ao exportar concorrentes: %w", err)
	}
	if err := writeAlerts(f, doc.PriceAlerts); err != nil {
		return fmt.Errorf("erro ao exportar alertas: %w", err)
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func writeProducts(f *excelize.File, products []models.TrackedProduct) error {
	rows := [][]interface{}{{
		"ID", "Nome", "Preço", "Preço original", "Vendas", "Avaliação", "Avaliações",
		"Categoria", "Vendedor", "URL", "Adicionado em", "Atualizado em",
	}}
	for _, p := range products {
		var original interface{}
		if p.OriginalPrice != nil {
			original = *p.OriginalPrice
		}
		rows = append(rows, []interface{}{
			p.ID, p.Name, p.Price, original, p.Sales, p.Rating, p.Reviews,
			p.Category, p.Seller, p.URL, formatDate(p.AddedAt), formatDate(p.LastUpdated),
		})
	}
	return writeRows(f, SheetProducts, rows)
}

// writeHistory junta preço e vendas em uma linha por amostra
func writeHistory(f *excelize.File, products []models.TrackedProduct) error {
	rows := [][]interface{}{{"Produto", "Tipo", "Valor", "Data"}}
	for _, p := range products {
		for _, point := range p.PriceHistory {
			rows = append(rows, []interface{}{p.Name, "preço", point.Price, formatDate(point.Date)})
		}
		for _, point := range p.SalesHistory {
			rows = append(rows, []interface{}{p.Name, "vendas", point.Sales, formatDate(point.Date)})
		}
	}
	return writeRows(f, SheetHistory, rows)
}

func writeCompetitors(f *excelize.File, competitors []models.Competitor) error {
	rows := [][]interface{}{{"ID", "Nome", "URL", "Produtos", "Seguidores", "Avaliação", "Adicionado em"}}
	for _, c := range competitors {
		rows = append(rows, []interface{}{
			c.ID, c.Name, c.ShopURL, c.Products, c.Followers, c.Rating, formatDate(c.AddedAt),
		})
	}
	return writeRows(f, SheetCompetitors, rows)
}

func writeAlerts(f *excelize.File, alerts []models.PriceAlert) error {
	rows := [][]interface{}{{"ID", "Produto", "Alvo", "Preço na criação", "Tipo", "Disparado", "Criado em"}}
	for _, a := range alerts {
		triggered := "não"
		if a.Triggered {
			triggered = "sim"
		}
		rows = append(rows, []interface{}{
			a.ID, a.ProductName, a.TargetPrice, a.CurrentPrice, string(a.Type), triggered, formatDate(a.CreatedAt),
		})
	}
	return writeRows(f, SheetAlerts, rows)
}
