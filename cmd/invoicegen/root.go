package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/internal/bootstrap"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	"github.com/jhoicas/Cotizaciones-api/internal/infrastructure/source"
	"github.com/jhoicas/Cotizaciones-api/pkg/config"
	"github.com/jhoicas/Cotizaciones-api/pkg/logger"
)

// globals flags persistentes compartidas por todos los subcomandos.
type globals struct {
	cfgFile string
	verbose bool
	format  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "invoicegen",
		Short: "Genera 請款單 / 報價單 en PDF a partir de una fuente CSV, JSON o XLSX",
		Long: `invoicegen lee una fuente de registros (una fila u objeto por factura),
valida y normaliza cada registro, calcula subtotal, 營業稅 y total, y genera
un PDF con una página por registro válido. Los registros inválidos se informan
por su posición y no detienen el lote.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "archivo de configuración (por defecto .env en el directorio actual)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "logs de depuración en stderr")
	root.PersistentFlags().StringVar(&g.format, "format", "", "formato de la fuente: csv | json | xlsx (por defecto, la extensión)")

	root.AddCommand(
		newPDFCmd(g),
		newSummariesCmd(g),
		newSingleCmd(g),
		newConvertCmd(g),
		newSampleCmd(),
		newExportCmd(g),
		newTokenCmd(g),
		newVersionCmd(),
	)
	return root
}

// load lee la configuración y arma un logger que escribe en stderr.
func (g *globals) load(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(g.cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.Log.Level
	if g.verbose {
		level = "debug"
	} else if level == "info" {
		// En la CLI el resumen ya se imprime; los logs info sobran.
		level = "warn"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Output: cmd.ErrOrStderr()})
	return cfg, log.Zerolog(), nil
}

// useCase arma el caso de uso; template no vacío reemplaza al configurado.
func (g *globals) useCase(cmd *cobra.Command, template string) (*billing.BatchUseCase, error) {
	cfg, log, err := g.load(cmd)
	if err != nil {
		return nil, err
	}
	if template != "" {
		cfg.Billing.Template = template
	}
	return bootstrap.BatchUseCase(cfg, log)
}

// source resuelve el formato (flag o extensión) de path.
func (g *globals) source(path string) (billing.Source, error) {
	var (
		format entity.SourceFormat
		err    error
	)
	if g.format != "" {
		format, err = source.ParseFormat(g.format)
	} else {
		format, err = source.DetectFormat(path)
	}
	if err != nil {
		return billing.Source{}, err
	}
	return billing.FileSource(path, format), nil
}

// derivedPath nombre de salida junto a la fuente: lote.csv → lote<suffix>.
func derivedPath(src, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(filepath.Dir(src), base+suffix)
}

func printFailures(cmd *cobra.Command, failures []dto.RecordFailure) {
	for _, f := range failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ registro %d: %s\n", f.Index, strings.Join(f.Reasons, "; "))
	}
}
