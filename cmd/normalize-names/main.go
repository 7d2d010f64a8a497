package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"dadataclean/internal/config"
	"dadataclean/internal/export"
	"dadataclean/internal/logger"
	"dadataclean/internal/namefile"
)

func main() {
	inPath := flag.String("in", "", "Path to a text file with one full name per line (stdin if empty)")
	encoding := flag.String("encoding", namefile.EncodingUTF8, "Input encoding: utf-8, windows-1251 or auto")
	strict := flag.Bool("strict", false, "Reject names that fail the strict acceptance rules")
	xlsxPath := flag.String("xlsx", "", "Save results to an Excel file")
	envFile := flag.String("env", "", "Optional .env file with DADATA_* settings")
	debug := flag.Bool("debug", false, "Capture raw responses and log them for failed names")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level := cfg.LogLevel
	if *debug {
		level = "DEBUG"
	}
	appLogger := logger.New(level, os.Stderr)

	client, err := newClient(cfg, appLogger, *debug)
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	var in io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatalf("failed to open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	names, err := namefile.Read(in, *encoding)
	if err != nil {
		log.Fatalf("failed to read names: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results := normalizeAll(ctx, client, names, *strict, appLogger)
	summary := summarize(results)

	fmt.Println("\n--- Full Name Normalization ---")
	fmt.Printf("Strict Mode: %t\n", *strict)
	fmt.Printf("Total Names: %d\n", summary.Total)
	fmt.Printf("Accepted: %d\n", summary.Accepted)
	for _, kind := range summary.kinds() {
		fmt.Printf(" - %s: %d\n", kind, summary.Failed[kind])
	}
	fmt.Printf("Duration: %s\n", time.Since(start).Round(time.Millisecond))

	if *xlsxPath != "" {
		if err := export.WriteNameResults(*xlsxPath, results); err != nil {
			log.Fatalf("failed to export results: %v", err)
		}
		fmt.Printf("Results saved to %s\n", *xlsxPath)
	}
}
