package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotizaciones-api/pkg/jwt"
)

func newTokenCmd(g *globals) *cobra.Command {
	var (
		role, subject string
		minutes       int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token JWT para la API (requiere JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			if role != jwt.RoleOperator && role != jwt.RoleViewer {
				return fmt.Errorf("rol %q desconocido: use %s o %s", role, jwt.RoleOperator, jwt.RoleViewer)
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, subject, role, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", jwt.RoleOperator, "operator | viewer")
	cmd.Flags().StringVar(&subject, "subject", "invoicegen", "subject del token")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	return cmd
}
