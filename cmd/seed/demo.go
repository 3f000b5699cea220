package main

import (
	"fmt"
	"time"

	"github.com/kreslo/kreslo-backend/internal/app/model"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/shopspring/decimal"
)

const demoImageBase = "https://cdn.kreslo.az/demo/"

// seedDemo fills an empty database with a small showroom catalog.
func seedDemo(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	bundles repository.BundleRepository,
	settings repository.SettingRepository,
	whatsappNumber string,
) error {
	office := &model.Category{NameAZ: "Ofis kresloları", NameRU: "Офисные кресла", NameEN: "Office chairs", Slug: "office-chairs", SortOrder: 1, IsActive: true}
	living := &model.Category{NameAZ: "Qonaq otağı", NameRU: "Гостиная", NameEN: "Living room", Slug: "living-room", SortOrder: 2, IsActive: true}
	for _, c := range []*model.Category{office, living} {
		if err := categories.Create(c); err != nil {
			return fmt.Errorf("create category %s: %w", c.Slug, err)
		}
	}

	saleEnds := time.Now().Add(72 * time.Hour)
	items := []model.Product{
		demoProduct(office, "ergo-pro", "Erqo Pro kreslo", "Кресло Эрго Про", "Ergo Pro chair", "349.00", "Black"),
		demoProduct(office, "task-mesh", "Tor kreslo", "Сетчатое кресло", "Mesh task chair", "189.90", "Grey"),
		demoProduct(living, "oslo-sofa", "Oslo divan", "Диван Осло", "Oslo sofa", "1299.00", "Navy/White"),
		demoProduct(living, "nord-table", "Nord jurnal masası", "Журнальный столик Норд", "Nord coffee table", "259.00", "Oak"),
		demoProduct(living, "custom-wardrobe", "Sifarişlə qarderob", "Шкаф на заказ", "Custom wardrobe", "0", "White"),
	}
	items[0].DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("299.00"))
	items[0].DiscountEndsAt = &saleEnds
	items[4].PriceNegotiable = true

	if _, err := products.BulkCreate(items, 100); err != nil {
		return fmt.Errorf("create products: %w", err)
	}

	bundle := &model.Bundle{
		NameAZ:             "Ev ofisi dəsti",
		NameRU:             "Набор для домашнего офиса",
		NameEN:             "Home office set",
		Slug:               "home-office-set",
		DescriptionEN:      "Chair and coffee table together",
		DiscountPercentage: 10,
		ImageURL:           demoImageBase + "home-office-set.jpg",
		IsActive:           true,
		Products:           []model.Product{items[0], items[3]},
	}
	if err := bundles.Create(bundle); err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	if whatsappNumber != "" {
		if _, err := settings.Set(model.SettingWhatsAppNumber, whatsappNumber); err != nil {
			return fmt.Errorf("store whatsapp number: %w", err)
		}
	}
	return nil
}

func demoProduct(category *model.Category, slug, nameAZ, nameRU, nameEN, price, color string) model.Product {
	return model.Product{
		NameAZ:     nameAZ,
		NameRU:     nameRU,
		NameEN:     nameEN,
		Slug:       slug,
		SKU:        "KR-" + slug,
		CategoryID: &category.ID,
		Price:      decimal.RequireFromString(price),
		ImageURL:   demoImageBase + slug + ".jpg",
		Color:      color,
		IsActive:   true,
		InStock:    true,
	}
}
