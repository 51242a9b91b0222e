// Command invoicegen genera 請款單 / 報價單 en PDF desde fuentes CSV, JSON o XLSX.
//
//	invoicegen pdf lote.csv -o lote.pdf
//	invoicegen summaries lote.xlsx
//	invoicegen single lote.json 3 -o tercero.pdf
//	invoicegen convert lote.csv lote.json
//	invoicegen sample
//	invoicegen export lote.csv -o resumen.xlsx
//	invoicegen token --role viewer
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
