package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salescli/pkg/contracts/domain"
)

func TestXLSXWriter_WriteOrders(t *testing.T) {
	writer := NewXLSXWriter(nil)

	orders := []domain.OrderRecord{
		{
			Date:          time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			Amount:        100,
			CustomerType:  domain.CustomerNew,
			PaymentMethod: domain.PaymentPix,
			Region:        "SP",
			City:          "São Paulo",
		},
		{
			Date:          time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
			Amount:        1234.56,
			CustomerType:  domain.CustomerRecurring,
			PaymentMethod: domain.PaymentBankSlip,
			Region:        "RJ",
			City:          "Niterói",
		},
	}

	data, err := writer.WriteOrders(orders)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pedidos")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Data", "Valor", "Tipo de Cliente", "Forma de Pagamento", "Estado", "Cidade"}, rows[0])
	assert.Equal(t, "01/03/2025", rows[1][0])
	assert.Equal(t, "Cliente Novo", rows[1][2])
	assert.Equal(t, "Pix", rows[1][3])
	assert.Equal(t, "Niterói", rows[2][5])

	amount, err := f.GetCellValue("Pedidos", "B2")
	require.NoError(t, err)
	assert.Equal(t, "100", amount)
}

func TestXLSXWriter_WriteOrdersEmpty(t *testing.T) {
	writer := NewXLSXWriter(nil)

	data, err := writer.WriteOrders(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pedidos")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
