package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/internal/bootstrap"
	"github.com/jhoicas/Cotizaciones-api/internal/infrastructure/source"
	"github.com/jhoicas/Cotizaciones-api/internal/infrastructure/spreadsheet"
)

// ── pdf ───────────────────────────────────────────────────────────────────────

func newPDFCmd(g *globals) *cobra.Command {
	var output, template string
	cmd := &cobra.Command{
		Use:   "pdf <fuente>",
		Short: "Genera un PDF con una página por registro válido",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := g.useCase(cmd, template)
			if err != nil {
				return err
			}
			src, err := g.source(args[0])
			if err != nil {
				return err
			}
			doc, result, err := uc.RenderBatch(cmd.Context(), src)
			if result != nil {
				printStats(cmd, result)
			}
			if err != nil {
				return err
			}
			if output == "" {
				output = derivedPath(args[0], ".pdf")
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ PDF generado: %s (%d páginas)\n", output, len(result.Payloads))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo PDF de salida (por defecto <fuente>.pdf)")
	cmd.Flags().StringVar(&template, "template", "", "invoice | quotation (por defecto BILLING_TEMPLATE)")
	return cmd
}

// printStats resumen del lote en stderr: registros, ítems y montos.
func printStats(cmd *cobra.Command, result *dto.BatchResult) {
	items := 0
	subtotal, tax, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range result.Payloads {
		items += len(p.Items)
		subtotal = subtotal.Add(p.Subtotal)
		tax = tax.Add(p.TaxAmount)
		total = total.Add(p.Total)
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Registros: %d válidos, %d rechazados\n", len(result.Payloads), len(result.Failures))
	fmt.Fprintf(w, "  品項總數: %d\n", items)
	fmt.Fprintf(w, "  小計: %s\n", subtotal.StringFixed(2))
	fmt.Fprintf(w, "  營業稅: %s\n", tax.StringFixed(2))
	fmt.Fprintf(w, "  總計: %s\n", total.StringFixed(2))
	printFailures(cmd, result.Failures)
}

// ── summaries ─────────────────────────────────────────────────────────────────

func newSummariesCmd(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summaries <fuente>",
		Short: "Lista cliente, número y total de cada registro válido",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := g.useCase(cmd, "")
			if err != nil {
				return err
			}
			src, err := g.source(args[0])
			if err != nil {
				return err
			}
			list, err := uc.ListSummaries(cmd.Context(), src)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, list)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "No\t客戶名稱\t單號\t總計")
			for _, s := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Index, s.CustomerName, s.InvoiceNumber, s.Total.StringFixed(2))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida JSON")
	return cmd
}

// ── single ────────────────────────────────────────────────────────────────────

func newSingleCmd(g *globals) *cobra.Command {
	var (
		output, template string
		asJSON           bool
	)
	cmd := &cobra.Command{
		Use:   "single <fuente> <posición>",
		Short: "Genera el documento de un único registro (posición 1-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("posición inválida %q: debe ser un entero", args[1])
			}
			uc, err := g.useCase(cmd, template)
			if err != nil {
				return err
			}
			src, err := g.source(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				payload, err := uc.Single(cmd.Context(), src, index)
				if err != nil {
					return err
				}
				return writeJSON(cmd, payload)
			}
			doc, err := uc.RenderSingle(cmd.Context(), src, index)
			if err != nil {
				return err
			}
			if output == "" {
				output = derivedPath(args[0], fmt.Sprintf("_%d.pdf", index))
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ PDF generado: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo PDF de salida (por defecto <fuente>_<posición>.pdf)")
	cmd.Flags().StringVar(&template, "template", "", "invoice | quotation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "imprime el payload en vez de generar el PDF")
	return cmd
}

// ── convert ───────────────────────────────────────────────────────────────────

func newConvertCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <fuente> [salida.json]",
		Short: "Convierte una fuente CSV o XLSX a la forma JSON intermedia",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			src, err := g.source(args[0])
			if err != nil {
				return err
			}
			output := derivedPath(args[0], ".json")
			if len(args) == 2 {
				output = args[1]
			}
			if output == args[0] {
				return fmt.Errorf("la salida %s sobrescribiría la fuente", output)
			}

			in, err := src.Open()
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			n, err := source.Convert(bootstrap.Reader(cfg), in, src.Format, out)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(output)
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ %d registros convertidos: %s\n", n, output)
			return nil
		},
	}
}

// ── sample ────────────────────────────────────────────────────────────────────

func newSampleCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sample [ruta]",
		Short: "Escribe una fuente JSON de ejemplo",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "sample_invoices.json"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s ya existe (use --force para sobrescribir)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.WriteFile(path, source.SampleJSON(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ ejemplo escrito: %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "sobrescribir si existe")
	return cmd
}

// ── export ────────────────────────────────────────────────────────────────────

func newExportCmd(g *globals) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <fuente>",
		Short: "Exporta el resumen del lote (documentos y rechazos) a XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := g.useCase(cmd, "")
			if err != nil {
				return err
			}
			src, err := g.source(args[0])
			if err != nil {
				return err
			}
			result, err := uc.RunBatch(cmd.Context(), src)
			if err != nil {
				return err
			}
			book, err := spreadsheet.SummaryWorkbook(result)
			if err != nil {
				return err
			}
			if output == "" {
				output = derivedPath(args[0], "_summary.xlsx")
			}
			if err := os.WriteFile(output, book, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ resumen exportado: %s (%d documentos, %d rechazos)\n",
				output, len(result.Payloads), len(result.Failures))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo XLSX de salida (por defecto <fuente>_summary.xlsx)")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
