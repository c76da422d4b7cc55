package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Apurer/navy-bodyfat-api/internal/app/api"
	bodyfatobs "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/adapters/observability"
	bodyfatapp "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/application"
	bodyfatdomain "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
	recapp "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	recdomain "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	recports "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
	platformobservability "github.com/Apurer/navy-bodyfat-api/internal/platform/observability"
)

type estimateOptions struct {
	gender    string
	height    string
	neck      string
	waist     string
	hip       string
	recommend bool
	verbose   bool
}

// recommenderFactory builds the provider used by --recommend; tests replace it.
var recommenderFactory = func(ctx context.Context) (recports.Provider, error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, err
	}
	return api.BuildProvider(ctx, cfg)
}

func newEstimateCmd() *cobra.Command {
	opts := &estimateOptions{}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute an estimate from circumference measurements",
		Example: `  bodyfat estimate --gender male --height 175 --neck 38 --waist 80
  bodyfat estimate --gender female --height 165 --neck 34 --waist 70 --hip 95 --recommend`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.gender, "gender", "", "male or female")
	flags.StringVar(&opts.height, "height", "", "height in cm")
	flags.StringVar(&opts.neck, "neck", "", "neck circumference in cm")
	flags.StringVar(&opts.waist, "waist", "", "waist circumference in cm")
	flags.StringVar(&opts.hip, "hip", "", "hip circumference in cm (required for female)")
	flags.BoolVar(&opts.recommend, "recommend", false, "also request wellness commentary")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "write structured logs to stderr")
	return cmd
}

func runEstimate(ctx context.Context, out, errOut io.Writer, opts *estimateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logWriter := io.Discard
	if opts.verbose {
		logWriter = errOut
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "bodyfat-cli",
		platformobservability.WithLogWriter(logWriter),
		platformobservability.WithoutSpanExport(),
	)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	service := bodyfatobs.New(
		bodyfatapp.NewService(),
		bodyfatobs.WithLogger(instruments.Logger),
		bodyfatobs.WithTracer(instruments.Tracer("cmd.bodyfat")),
	)
	estimate, err := service.Calculate(ctx, bodyfatdomain.MeasurementInput{
		Gender:   opts.gender,
		HeightCm: opts.height,
		NeckCm:   opts.neck,
		WaistCm:  opts.waist,
		HipCm:    opts.hip,
	})
	if err != nil {
		if kind, ok := bodyfatdomain.KindOf(err); ok {
			fmt.Fprintln(errOut, kind.Message())
			return errReported
		}
		return err
	}
	fmt.Fprintf(out, "Tu porcentaje de grasa corporal estimado es: %s%%\n", estimate.Formatted())
	if !opts.recommend {
		return nil
	}

	provider, err := recommenderFactory(ctx)
	if err != nil {
		instruments.Logger.Warn("recommendation provider could not be configured", slog.String("error", err.Error()))
		fmt.Fprintln(errOut, recdomain.FailureMessage(recdomain.ErrProviderUnavailable))
		return nil
	}
	if provider == nil {
		instruments.Logger.Warn("recommendation requested without a configured provider")
		fmt.Fprintln(errOut, recdomain.FailureMessage(recdomain.ErrProviderUnavailable))
		return nil
	}
	recService := recapp.NewService(provider)
	outcome := <-recService.RecommendAsync(ctx, types.RecommendInput{
		Gender:         string(estimate.Gender),
		BodyFatPercent: estimate.BodyFatPercent,
	})
	if outcome.Err != nil {
		instruments.Logger.Warn("recommendation failed", slog.String("error", outcome.Err.Error()))
		fmt.Fprintln(errOut, recdomain.FailureMessage(outcome.Err))
		return nil
	}
	fmt.Fprintf(out, "\nRecomendaciones del Asistente:\n%s\n", outcome.Recommendation.Text)
	return nil
}
