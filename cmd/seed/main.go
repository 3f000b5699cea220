package main

import (
	"flag"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/kreslo/kreslo-backend/config"
	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Product sheet columns, in order.
var productHeaders = []string{
	"sku", "slug", "name_az", "name_ru", "name_en", "category",
	"price", "discount_price", "color", "image_url", "in_stock", "price_negotiable",
}

func main() {
	demo := flag.Bool("demo", false, "seed the demo catalog")
	yes := flag.Bool("y", false, "skip the confirmation prompt")
	flag.Usage = func() {
		fmt.Println("Usage: go run ./cmd/seed [-y] <products.xlsx>")
		fmt.Println("       go run ./cmd/seed -demo")
	}
	flag.Parse()

	if !*demo && flag.NArg() < 1 {
		flag.Usage()
		log.Fatal("missing xlsx file path")
	}

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

	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	if *demo {
		if err := seedDemo(categoryRepo, productRepo, repository.NewBundleRepository(db.GetDB()), repository.NewSettingRepository(db.GetDB()), cfg.Store.WhatsAppNumber); err != nil {
			log.Fatal("Failed to seed demo catalog:", err)
		}
		fmt.Println("Demo catalog seeded.")
		return
	}

	filePath := flag.Arg(0)
	fmt.Printf("Reading XLSX file: %s\n", filePath)

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	categories, err := categoryIDs(categoryRepo)
	if err != nil {
		log.Fatal("Failed to load categories:", err)
	}

	products, report, err := readProductsFromXLSX(f, categories)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", report.rows)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", len(report.skipped))
	for _, reason := range report.skipped {
		fmt.Printf("    %s\n", reason)
	}

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	inserted, err := productRepo.BulkCreate(products, 500)
	if err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Products imported: %d (existing slugs skipped: %d)\n", inserted, int64(len(products))-inserted)
}

func categoryIDs(repo repository.CategoryRepository) (map[string]string, error) {
	categories, err := repo.FindAll()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		ids[c.Slug] = c.ID
	}
	return ids, nil
}

type importReport struct {
	rows    int
	skipped []string
}

// readProductsFromXLSX reads the first sheet. The header row must start with
// productHeaders; category cells hold category slugs.
func readProductsFromXLSX(f *excelize.File, categories map[string]string) ([]model.Product, importReport, error) {
	var report importReport

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, report, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, report, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, report, fmt.Errorf("no data found in XLSX file")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, report, err
	}

	var products []model.Product
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		report.rows++

		product, err := parseProductRow(row, categories)
		if err != nil {
			report.skipped = append(report.skipped, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if seen[product.Slug] {
			report.skipped = append(report.skipped, fmt.Sprintf("row %d: duplicate slug %q", line, product.Slug))
			continue
		}
		seen[product.Slug] = true
		product.SortOrder = len(products)
		products = append(products, product)
	}

	return products, report, nil
}

func checkHeader(row []string) error {
	for i, want := range productHeaders {
		if i >= len(row) || strings.ToLower(strings.TrimSpace(row[i])) != want {
			return fmt.Errorf("unexpected header, want columns: %s", strings.Join(productHeaders, ", "))
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseProductRow(row []string, categories map[string]string) (model.Product, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	p := model.Product{
		SKU:             cell(0),
		Slug:            cell(1),
		NameAZ:          cell(2),
		NameRU:          cell(3),
		NameEN:          cell(4),
		Color:           cell(8),
		ImageURL:        cell(9),
		IsActive:        true,
		InStock:         parseBool(cell(10), true),
		PriceNegotiable: parseBool(cell(11), false),
	}

	if p.NameAZ == "" {
		return p, fmt.Errorf("name_az is required")
	}
	if p.Slug == "" {
		p.Slug = generateSlug(firstNonEmpty(p.NameEN, p.NameAZ))
	}
	if p.Slug == "" {
		return p, fmt.Errorf("cannot derive a slug")
	}

	if slug := cell(5); slug != "" {
		id, ok := categories[slug]
		if !ok {
			return p, fmt.Errorf("unknown category %q", slug)
		}
		p.CategoryID = &id
	}

	price, err := parseAmount(cell(6))
	if err != nil {
		return p, fmt.Errorf("price: %w", err)
	}
	p.Price = price
	if price.IsZero() && !p.PriceNegotiable {
		return p, fmt.Errorf("price is required unless price_negotiable is set")
	}

	if raw := cell(7); raw != "" {
		discount, err := parseAmount(raw)
		if err != nil {
			return p, fmt.Errorf("discount_price: %w", err)
		}
		if !discount.LessThan(price) {
			return p, fmt.Errorf("discount_price must be below price")
		}
		p.DiscountPrice = decimal.NewNullDecimal(discount)
	}

	return p, nil
}

// parseAmount accepts "1 299,90" and "1299.90". Empty is zero.
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, "\u00a0", "")
	raw = strings.Replace(raw, ",", ".", 1)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", raw)
	}
	return d.Round(2), nil
}

func parseBool(raw string, fallback bool) bool {
	switch strings.ToLower(raw) {
	case "1", "yes", "y", "true", "bəli", "да":
		return true
	case "0", "no", "n", "false", "xeyr", "нет":
		return false
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var (
	nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// generateSlug builds a URL slug from a product name.
func generateSlug(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	slug = dashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
