package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/pkg/jwt"
)

// run ejecuta la CLI en un directorio temporal sin .env y devuelve stdout y stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestSample_NoSobrescribe(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := run(t, "sample")
	require.NoError(t, err)
	_, err = os.Stat("sample_invoices.json")
	require.NoError(t, err)

	_, _, err = run(t, "sample")
	assert.Error(t, err)

	_, _, err = run(t, "sample", "--force")
	assert.NoError(t, err)
}

func TestSummaries_JSON(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "sample", "lote.json")
	require.NoError(t, err)

	out, _, err := run(t, "summaries", "lote.json", "--json")
	require.NoError(t, err)

	var list []dto.InvoiceSummary
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "INV-001", list[0].InvoiceNumber)
	assert.Equal(t, "2100", list[0].Total.String())
	assert.Equal(t, "INV-002", list[1].InvoiceNumber)
}

func TestSummaries_Tabla(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "sample", "lote.json")
	require.NoError(t, err)

	out, _, err := run(t, "summaries", "lote.json")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "INV-001")
	assert.Contains(t, lines[1], "2100.00")
}

func TestPDF_LoteCSVConRechazos(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	csv := "客戶名稱,發票號碼,品項1,數量,單價\nAcme,INV-1,Widget,2,100\n,INV-2,Gadget,1,5\n"
	require.NoError(t, os.WriteFile("lote.csv", []byte(csv), 0o644))

	_, stderr, err := run(t, "pdf", "lote.csv")
	require.NoError(t, err)

	doc, err := os.ReadFile(filepath.Join(dir, "lote.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.Contains(t, stderr, "1 válidos, 1 rechazados")
	assert.Contains(t, stderr, "registro 2: customerName missing")
}

func TestPDF_SinRegistrosValidos(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("lote.csv", []byte("客戶名稱,發票號碼\n,INV-1\n"), 0o644))

	_, _, err := run(t, "pdf", "lote.csv")
	assert.Error(t, err)
	_, statErr := os.Stat("lote.pdf")
	assert.True(t, os.IsNotExist(statErr))
}

func TestSingle_JSONYFueraDeRango(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "sample", "lote.json")
	require.NoError(t, err)

	out, _, err := run(t, "single", "lote.json", "2", "--json")
	require.NoError(t, err)
	var payload dto.DocumentPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "INV-002", payload.InvoiceNumber)
	assert.Equal(t, "3個月", payload.Items[1].QuantityText)

	_, _, err = run(t, "single", "lote.json", "3")
	assert.ErrorContains(t, err, "tiene 2")

	_, _, err = run(t, "single", "lote.json", "dos")
	assert.Error(t, err)
}

func TestConvert_CSVaJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("lote.csv", []byte("客戶名稱,發票號碼,品項1,數量,單價\nAcme,INV-1,Widget,2,100\n"), 0o644))

	_, _, err := run(t, "convert", "lote.csv")
	require.NoError(t, err)

	out, _, err := run(t, "summaries", "lote.json", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"invoice_number": "INV-1"`)
}

func TestConvert_FormatoDesconocido(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("lote.txt", []byte("x"), 0o644))

	_, _, err := run(t, "convert", "lote.txt")
	assert.Error(t, err)

	_, _, err = run(t, "convert", "--format", "csv", "lote.txt", "lote.txt")
	assert.Error(t, err, "no debe sobrescribir la fuente")
}

func TestExport_XLSX(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "sample", "lote.json")
	require.NoError(t, err)

	_, _, err = run(t, "export", "lote.json", "-o", "resumen.xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile("resumen.xlsx")
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestToken_RequiereSecret(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := run(t, "token")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "cli-secret")
	out, _, err := run(t, "token", "--role", jwt.RoleViewer, "--subject", "auditor")
	require.NoError(t, err)

	subject, role, err := jwt.Parse("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "auditor", subject)
	assert.Equal(t, jwt.RoleViewer, role)

	_, _, err = run(t, "token", "--role", "admin")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "invoicegen "))
}
