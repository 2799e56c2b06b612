package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fruitfulhq/storefront-backend/config"
	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the regional delivery charge table from an XLSX sheet with the
// columns: region, amount, free_over_amount (optional).
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	chargeRepo := repository.NewDeliveryChargeRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	charges, err := readChargesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total delivery charges to import: %d\n", len(charges))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range charges {
		if err := chargeRepo.Create(&charges[i]); err != nil {
			fmt.Printf("Skipping %q: %v\n", charges[i].Region, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total delivery charges imported: %d\n", imported)
}

func readChargesFromXLSX(filePath string) ([]model.DeliveryCharge, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var charges []model.DeliveryCharge
	seenRegions := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skippedCount++
			continue
		}

		region := strings.TrimSpace(row[0])
		amountStr := strings.TrimSpace(row[1])

		if region == "" || amountStr == "" {
			skippedCount++
			continue
		}

		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil || amount < 0 {
			skippedCount++
			continue
		}

		// Regions are unique; keep the first occurrence
		key := strings.ToLower(region)
		if seenRegions[key] {
			skippedCount++
			continue
		}
		seenRegions[key] = true

		charge := model.DeliveryCharge{
			Region: region,
			Amount: amount,
		}

		if len(row) >= 3 {
			if threshold := strings.TrimSpace(row[2]); threshold != "" {
				freeOver, err := strconv.ParseFloat(threshold, 64)
				if err == nil && freeOver > 0 {
					charge.FreeOverAmount = &freeOver
				}
			}
		}

		charges = append(charges, charge)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid charges: %d\n", len(charges))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return charges, nil
}
