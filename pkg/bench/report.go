package bench

import (
	"fmt"
	"io"
	"text/tabwriter"

	"indexbench/pkg/common"
)

// WriteTable prints results as an aligned table, one row per fold.
func WriteTable(w io.Writer, results []common.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Dataset\tModel\tFold\tTrain\tPredict (ns)\tMSE\tMAE\tSpace (B)\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\t%.1f\t%.4g\t%.4g\t%d\t\n",
			r.Dataset, r.Kind, r.Fold, r.TrainTime, r.PredictTime, r.MSE, r.MAE, r.Space)
	}
	return tw.Flush()
}
