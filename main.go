package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/asaidimu/go-requery/core/query"
	"github.com/asaidimu/go-requery/core/render"
	"github.com/asaidimu/go-requery/core/schema"
	"github.com/asaidimu/go-requery/dialect"
	"github.com/asaidimu/go-requery/exec"
)

func setupMetadata() (*schema.StaticProvider, error) {
	provider := schema.NewStaticProvider()
	if err := provider.RegisterTable(schema.TableMeta{Name: "BOOK", IDColumn: "ID"}); err != nil {
		return nil, err
	}
	if err := provider.RegisterTable(schema.TableMeta{Name: "BOOK_STORE", IDColumn: "ID"}); err != nil {
		return nil, err
	}
	err := provider.RegisterAssociation("BOOK", schema.AssociationDescriptor{
		Name:                "store",
		TargetTable:         "BOOK_STORE",
		TargetIDColumn:      "ID",
		SourceColumn:        "STORE_ID",
		TargetColumn:        "ID",
		IsNullable:          true,
		IsBasedOnForeignKey: true,
	})
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func setupDatabase(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE BOOK_STORE (ID INTEGER PRIMARY KEY, NAME TEXT NOT NULL)`,
		`CREATE TABLE BOOK (ID INTEGER PRIMARY KEY, NAME TEXT NOT NULL, PRICE REAL NOT NULL,
			STORE_ID INTEGER REFERENCES BOOK_STORE(ID))`,
		`INSERT INTO BOOK_STORE (ID, NAME) VALUES (1, 'O''REILLY'), (2, 'MANNING')`,
		`INSERT INTO BOOK (ID, NAME, PRICE, STORE_ID) VALUES
			(1, 'Learning GraphQL', 45, 1),
			(2, 'Effective TypeScript', 58, 1),
			(3, 'GraphQL in Action', 49, 2),
			(4, 'Self Published Notes', 25, NULL)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("setup statement failed: %w", err)
		}
	}
	return nil
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("could not create logger: %v", err)
	}
	defer logger.Sync()

	provider, err := setupMetadata()
	if err != nil {
		log.Fatalf("metadata setup failed: %v", err)
	}

	bookMeta, err := provider.Table("BOOK")
	if err != nil {
		log.Fatalf("metadata lookup failed: %v", err)
	}

	// A paged data query: books between two prices, ordered by the name
	// of their store. The store join is only needed for ordering.
	builder := query.NewBuilder(provider, bookMeta)
	store := builder.Join(builder.Root(), "store", query.JoinLeftOuter)
	q, err := builder.
		Select(query.Col(builder.Root(), "ID"), query.Col(builder.Root(), "NAME"), query.Col(builder.Root(), "PRICE")).
		Where(query.Between(query.Col(builder.Root(), "PRICE"), query.Value(20), query.Value(50))).
		OrderByAsc(query.Col(store, "NAME")).
		Page(2, 0).
		Build()
	if err != nil {
		log.Fatalf("query construction failed: %v", err)
	}

	body, err := render.Data(q)
	if err != nil {
		log.Fatalf("data render failed: %v", err)
	}
	countStmt, err := render.Count(q)
	if err != nil {
		log.Fatalf("count render failed: %v", err)
	}

	fmt.Println("--- rendered statements ---")
	fmt.Printf("count: %s %v\n", countStmt.SQL, countStmt.Params)
	for _, name := range []string{dialect.NameDefault, dialect.NameMySQL, dialect.NameSQLServer, dialect.NameOracle} {
		d, err := dialect.For(name)
		if err != nil {
			log.Fatalf("dialect lookup failed: %v", err)
		}
		paged := d.Paginate(body, 2, 0)
		fmt.Printf("%s: %s %v\n", name, paged.SQL, paged.Params)
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	defer db.Close()

	if err := setupDatabase(db); err != nil {
		log.Fatalf("database setup failed: %v", err)
	}

	executor, err := exec.NewExecutor(db, logger)
	if err != nil {
		log.Fatalf("executor setup failed: %v", err)
	}
	unsubscribe := executor.Subscribe(exec.QuerySuccess, func(ctx context.Context, event exec.QueryEvent) error {
		logger.Info("query completed",
			zap.String("statementId", event.StatementID),
			zap.String("sql", event.SQL))
		return nil
	})
	defer unsubscribe()

	defaultDialect, err := dialect.For(dialect.NameDefault)
	if err != nil {
		log.Fatalf("dialect lookup failed: %v", err)
	}
	pager := exec.NewPager(executor, defaultDialect, logger)

	page, err := pager.FetchPage(context.Background(), q)
	if err != nil {
		log.Fatalf("page fetch failed: %v", err)
	}

	fmt.Println("--- page ---")
	fmt.Printf("total rows: %d (page of %d from offset %d)\n", page.Total, page.Limit, page.Offset)
	for _, row := range page.Rows {
		fmt.Printf("  %v | %v | %v\n", row["ID"], row["NAME"], row["PRICE"])
	}
}
