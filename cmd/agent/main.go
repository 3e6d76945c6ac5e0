package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/georgemunganga/cloture-backend/internal/client"
	"github.com/georgemunganga/cloture-backend/internal/config"
	"github.com/georgemunganga/cloture-backend/internal/logger"
	"github.com/georgemunganga/cloture-backend/internal/modules/capture"
	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/georgemunganga/cloture-backend/internal/modules/report"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	// Amounts travel as JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	if err != nil {
		log.Warn().Err(err).Msg("could not read .env")
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "capture":
		runCapture(cfg, log)
	case "report":
		runReport(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Cloture agent CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  agent <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  capture   Enter a cash closing and submit it")
	fmt.Println("  report    Export a weekly or monthly report as CSV (administrators)")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'agent <command> -h' for more information on a command.")
	fmt.Println("The API address is read from BACKEND_API_URL.")
}

func runCapture(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	pseudo := fs.String("pseudo", "", "agent pseudo")
	password := fs.String("password", "", "agent password")
	number := fs.String("numero", "", "closing number")
	date := fs.String("date", "", "closing date (YYYY-MM-DD)")
	pv := fs.String("pv", "", "point of sale: "+joinPoints())
	amounts := map[closing.Field]*string{}
	for _, f := range append(append([]closing.Field{}, closing.TransactionTypes...), closing.PaymentMethods...) {
		amounts[f] = fs.String(string(f), "0", string(f)+" amount")
	}
	ht := fs.String("ht", "0", "total_hors_taxes")
	tax := fs.String("taxe", "0", "montant_de_la_taxe")
	fs.Parse(os.Args[2:])

	if *pseudo == "" || *password == "" {
		log.Fatal().Msg("Error: -pseudo and -password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	api := client.New(cfg.BackendURL, cfg.HTTPTimeout, log)
	sess, err := api.Login(ctx, *pseudo, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	defer func() {
		if err := api.Logout(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Logout failed")
		}
	}()

	wf := capture.New(sess, api)
	for _, step := range capture.Steps() {
		fmt.Printf("── %s\n", step.Title())
		switch step {
		case capture.Details:
			if err := wf.SetClosingNumber(*number); err != nil {
				log.Error().Err(err).Msg("numero_de_cloture ignored")
			}
			if err := wf.SetDate(*date); err != nil {
				log.Error().Err(err).Msg("date ignored")
			}
			if err := wf.SetPointOfSale(closing.PointOfSale(strings.ToUpper(*pv))); err != nil {
				log.Error().Err(err).Msg("point_de_vente ignored")
			}
		case capture.TransactionTypes, capture.PaymentMethods:
			fields, _ := step.Fields()
			for _, f := range fields {
				setAmount(wf, log, f, *amounts[f])
			}
		case capture.Totals:
			setAmount(wf, log, closing.FieldTotalHorsTaxes, *ht)
			setAmount(wf, log, closing.FieldMontantDeLaTaxe, *tax)
		case capture.Review:
			printRecap(wf.Record())
		}
		if step != capture.Review {
			if _, err := wf.Next(); err != nil {
				log.Error().Err(err).Msg("capture interrupted")
				return
			}
		}
	}

	checkReport, verr := wf.Check()
	printSignals(checkReport)
	if verr != nil {
		log.Error().Err(verr).Msg("closing not submitted")
		return
	}

	res, err := wf.Submit(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Submission failed")
		return
	}
	log.Info().Str("id", res.Stored.ID.String()).Str("numero_de_cloture", res.Stored.ClosingNumber).Msg("closing submitted")
}

func setAmount(wf *capture.Workflow, log zerolog.Logger, f closing.Field, raw string) {
	if err := wf.SetAmount(f, raw); err != nil {
		log.Error().Err(err).Str("field", string(f)).Msg("amount ignored")
	}
}

func printRecap(rec closing.Record) {
	fmt.Printf("  numero_de_cloture  %s\n", rec.ClosingNumber)
	fmt.Printf("  date               %s\n", rec.DateString())
	fmt.Printf("  point_de_vente     %s\n", rec.PointOfSale.Label())
	fmt.Printf("  agent              %s\n", rec.Agent)
	for _, f := range closing.MonetaryFields() {
		v, _ := rec.Amount(f)
		fmt.Printf("  %-18s %s\n", f, closing.FormatAmount(v))
	}
}

func printSignals(r closing.Report) {
	for _, s := range r.Signals {
		fmt.Printf("[%s] %s\n", s.Severity, s.Message)
	}
}

func joinPoints() string {
	codes := make([]string, 0, len(closing.PointsOfSale()))
	for _, p := range closing.PointsOfSale() {
		codes = append(codes, string(p))
	}
	return strings.Join(codes, ", ")
}

func runReport(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	pseudo := fs.String("pseudo", "", "administrator pseudo")
	password := fs.String("password", "", "administrator password")
	kind := fs.String("type", string(report.ByPointOfSale), "point_de_vente or type_paiement")
	week := fs.String("week", "", "first day of the week (YYYY-MM-DD)")
	month := fs.String("month", "", "month (YYYY-MM)")
	out := fs.String("out", report.ExportFilename, "output file")
	charset := fs.String("charset", "utf-8", "utf-8 or windows-1252")
	fs.Parse(os.Args[2:])

	if *pseudo == "" || *password == "" {
		log.Fatal().Msg("Error: -pseudo and -password are required")
	}
	dim, err := report.ParseDimension(*kind)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -type")
	}
	var period *report.Period
	switch {
	case *week != "":
		p, err := report.ParseWeek(*week)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -week")
		}
		period = &p
	case *month != "":
		p, err := report.ParseMonth(*month)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -month")
		}
		period = &p
	default:
		log.Fatal().Err(report.ErrPeriodRequired).Msg("Error: -week or -month is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	defer cancel()

	api := client.New(cfg.BackendURL, cfg.HTTPTimeout, log)
	if _, err := api.Login(ctx, *pseudo, *password); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	defer api.Logout(context.Background())

	text, err := report.NewService(api).Export(ctx, report.Query{Dimension: dim, Period: period})
	if err != nil {
		log.Error().Err(err).Msg("Report failed")
		return
	}

	data := []byte(text)
	if strings.EqualFold(*charset, "windows-1252") {
		if data, err = report.EncodeWindows1252(text); err != nil {
			log.Error().Err(err).Msg("Encoding failed")
			return
		}
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Error().Err(err).Msg("Write failed")
		return
	}
	log.Info().Str("file", *out).Str("periode", period.String()).Str("type", string(dim)).Msg("report written")
}
