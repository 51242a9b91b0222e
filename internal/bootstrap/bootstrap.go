// Package bootstrap arma el caso de uso de lotes a partir de la configuración.
// Lo comparten cmd/api y cmd/invoicegen.
package bootstrap

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	infrapdf "github.com/jhoicas/Cotizaciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cotizaciones-api/internal/infrastructure/source"
	"github.com/jhoicas/Cotizaciones-api/pkg/config"
)

// Settings traduce la configuración cargada a billing.Settings.
func Settings(cfg *config.Config) billing.Settings {
	return billing.Settings{
		TaxRate:  cfg.Billing.TaxRate,
		MaxItems: cfg.Billing.MaxItems,
		Template: cfg.Billing.Template,
		Company: entity.CompanyProfile{
			Name:    cfg.Company.Name,
			Phone:   cfg.Company.Phone,
			Fax:     cfg.Company.Fax,
			Address: cfg.Company.Address,
			TaxID:   cfg.Company.TaxID,
		},
	}
}

// Reader lector de fuentes con el vocabulario por defecto y la codificación configurada.
func Reader(cfg *config.Config) *source.Reader {
	return source.NewReader(entity.DefaultVocabulary(), source.WithCharset(cfg.Billing.Charset))
}

// BatchUseCase construye lector, renderizador y caso de uso. opts agrega
// archivo de corridas, métricas, etc.
func BatchUseCase(cfg *config.Config, log zerolog.Logger, opts ...billing.Option) (*billing.BatchUseCase, error) {
	renderer, err := infrapdf.NewMarotoRenderer(infrapdf.Options{
		FontPath:     cfg.PDF.FontPath,
		BoldFontPath: cfg.PDF.BoldFontPath,
	})
	if err != nil {
		return nil, err
	}
	if cfg.PDF.FontPath == "" {
		log.Warn().Msg("PDF_FONT_PATH no definido: los textos chinos no se verán en el PDF")
	}
	opts = append([]billing.Option{billing.WithLogger(log)}, opts...)
	return billing.NewBatchUseCase(Reader(cfg), renderer, Settings(cfg), opts...)
}
