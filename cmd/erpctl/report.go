package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-core/internal/application/accounting"
	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
)

var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Imprime el balance de sumas y saldos",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		tb, err := accounting.NewJournalUseCase(store).TrialBalance(cmd.Context())
		if err != nil {
			return err
		}
		return printTrialBalance(cmd.OutOrStdout(), tb)
	},
}

var stockCmd = &cobra.Command{
	Use:     "stock <código>",
	Short:   "Muestra el stock de un artículo y sus últimos movimientos",
	Example: "  erpctl stock ART-2024-0001 --movements 20",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		movements, _ := cmd.Flags().GetInt("movements")

		e, store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		st, err := inventory.NewStockUseCase(store).GetStock(cmd.Context(), args[0], movements)
		if err != nil {
			return err
		}
		return printStock(cmd.OutOrStdout(), st)
	},
}

func init() {
	rootCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(stockCmd)

	stockCmd.Flags().Int("movements", 10, "Cantidad de movimientos a listar")
}

func printTrialBalance(out io.Writer, tb *dto.TrialBalanceResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Código\tCuenta\tDebe\tHaber\tSaldo deudor\tSaldo acreedor\t")
	for _, r := range tb.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Code, r.Name,
			r.TotalDebit.StringFixed(2), r.TotalCredit.StringFixed(2),
			r.DebitBalance.StringFixed(2), r.CreditBalance.StringFixed(2))
	}
	fmt.Fprintf(w, "\tTOTAL\t%s\t%s\t%s\t%s\t\n",
		tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2),
		tb.TotalDebitBalance.StringFixed(2), tb.TotalCreditBalance.StringFixed(2))
	if err := w.Flush(); err != nil {
		return err
	}
	if !tb.Balanced {
		fmt.Fprintln(out, "ATENCIÓN: el balance no cierra")
	}
	return nil
}

func printStock(out io.Writer, st *dto.StockResponse) error {
	fmt.Fprintf(out, "%s: %d unidades\n", st.ProductCode, st.Quantity)
	if len(st.Movements) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Movimiento\tFecha\tTipo\tCantidad\tAntes\tDespués\tReferencia")
	for _, m := range st.Movements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n", m.Code, m.CreatedAt.Format("2006-01-02 15:04"),
			m.Direction, m.Quantity, m.QuantityBefore, m.QuantityAfter, m.Reference)
	}
	return w.Flush()
}
