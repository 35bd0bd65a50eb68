// seed_catalog carga insumos (CSV) y productos con su BOM (JSON) en la base configurada.
//
// Uso: go run ./cmd/seed_catalog [insumos.csv] [productos.json]
// Por defecto busca insumos.csv y productos.json en el directorio actual.
// CATALOG_ENCODING=windows-1252 para CSV exportados desde Excel en español.
// Los SKU existentes se omiten, por lo que puede ejecutarse varias veces.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Manufactura-api/internal/application/catalog"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

func main() {
	itemsPath, productsPath := "insumos.csv", "productos.json"
	if len(os.Args) > 1 {
		itemsPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		productsPath = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fail("Cargar configuración", err)
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		fail("Almacenamiento", fmt.Errorf("seed_catalog requiere STORAGE_DRIVER=postgres"))
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_catalog"})

	items, err := readItems(itemsPath, cfg.Catalog.Encoding)
	if err != nil {
		fail("Leer insumos", err)
	}
	products, err := readProducts(productsPath)
	if err != nil {
		fail("Leer productos", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("Conexión a PostgreSQL", err)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fail("Aplicar esquema", err)
	}

	res, err := catalog.NewImportUseCase(postgres.NewTxRunner(pool), log).Import(ctx, items, products)
	if err != nil {
		fail("Importar catálogo", err)
	}
	fmt.Printf("Insumos: %d creados, %d omitidos\n", res.ItemsCreated, res.ItemsSkipped)
	fmt.Printf("Productos: %d creados, %d omitidos\n", res.ProductsCreated, res.ProductsSkipped)
}

func readItems(path, encoding string) ([]catalog.ItemInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.ParseItemsCSV(f, encoding)
}

func readProducts(path string) ([]catalog.ProductInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.ParseProductsJSON(f)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
