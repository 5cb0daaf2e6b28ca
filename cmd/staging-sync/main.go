// One-shot staging sync, for cron or manual backfills:
//
//	go run ./cmd/staging-sync -month 2024-03
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket.org/khsdfiscal/icecube_backend/config"
	"bitbucket.org/khsdfiscal/icecube_backend/staging"
	"bitbucket.org/khsdfiscal/icecube_backend/utils"
)

func main() {
	monthFlag := flag.String("month", "", "reporting month, YYYY-MM (default: current month)")
	flag.Parse()

	logger := config.GetLogger()

	month := time.Now().UTC()
	if *monthFlag != "" {
		parsed, err := time.Parse("2006-01", *monthFlag)
		if err != nil {
			log.Fatalf("invalid -month %q: must be YYYY-MM", *monthFlag)
		}
		month = parsed
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectUpstreamDatabaseWithRetry()

	ctx := utils.SetCallerInContext(context.Background(), "cli")
	rowsSynced, err := staging.Sync(ctx, config.GetDB(), config.GetUpstreamDB(), month)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"month": month.Format("2006-01"),
		}).Fatal("staging sync failed: " + err.Error())
	}

	logger.WithFields(logrus.Fields{
		"month": month.Format("2006-01"),
		"rows":  rowsSynced,
	}).Info("staging sync complete")
}
