// src/services/import_service.go
package services

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/billfolio/backend/src/config"
	"github.com/username/billfolio/backend/src/database"
	"github.com/username/billfolio/backend/src/importers"
	"github.com/username/billfolio/backend/src/logger"
	"github.com/username/billfolio/backend/src/models"
)

const (
	ckSummary      = "agg_ledger_summary"
	ckTransactions = "res_transactions_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

const storedDateLayout = "2006-01-02"

type importServiceImpl struct {
	accountRules []models.AccountRule
	reportCache  *cache.Cache
}

func NewImportService(accountRules []models.AccountRule, reportCache *cache.Cache) ImportService {
	return &importServiceImpl{
		accountRules: accountRules,
		reportCache:  reportCache,
	}
}

// importerConfig assembles the per-platform importer configuration from the
// shared account rules and the app config.
func (s *importServiceImpl) importerConfig(source string) importers.Config {
	cfg := importers.Config{
		AccountRules:    s.accountRules,
		FallbackAccount: config.Cfg.FallbackAccount,
		Tag:             config.Cfg.ImportTag,
		IncludeTime:     config.Cfg.IncludeTimeMetadata,
	}
	switch source {
	case "wechat":
		cfg.OwnerAccount = config.Cfg.WeChatAccount
	case "alipay":
		cfg.OwnerAccount = config.Cfg.AlipayAccount
	}
	return cfg
}

func (s *importServiceImpl) ProcessStatement(fileReader io.Reader, fileName string, source string) (*ImportResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessStatement START", "source", source, "fileName", fileName)

	importer, err := importers.GetImporter(source, s.importerConfig(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSource, err)
	}

	txns, err := importer.Extract(fileReader, fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	result := &ImportResult{
		BatchID:      uuid.NewString(),
		Source:       source,
		Transactions: txns,
	}
	for _, txn := range txns {
		if txn.Flag == models.FlagReview {
			result.ReviewCount++
		}
	}
	result.TransactionCount = len(txns)
	if len(txns) == 0 {
		return result, nil
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	entryStmt, err := dbTx.Prepare(`INSERT INTO normalized_transactions
		(batch_id, source, source_file, source_line, date, time, payee, narration, tag, flag, trade_no, merchant_order_no)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("error preparing transaction insert: %w", err)
	}
	defer entryStmt.Close()

	postingStmt, err := dbTx.Prepare(`INSERT INTO postings (entry_id, account, amount, currency) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("error preparing posting insert: %w", err)
	}
	defer postingStmt.Close()

	for _, txn := range txns {
		var payee sql.NullString
		if txn.Payee != nil {
			payee = sql.NullString{String: *txn.Payee, Valid: true}
		}
		var tag string
		if len(txn.Tags) > 0 {
			tag = txn.Tags[0]
		}
		res, err := entryStmt.Exec(result.BatchID, source, txn.SourceFile, txn.SourceLine,
			txn.Date.Format(storedDateLayout), txn.Metadata["time"], payee, txn.Narration,
			tag, txn.Flag, txn.TransactionID, txn.MerchantOrderID)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate transaction on import",
					"sourceFile", txn.SourceFile, "sourceLine", txn.SourceLine)
				result.SkippedDuplicates++
				continue
			}
			return nil, fmt.Errorf("error inserting transaction (line %d): %w", txn.SourceLine, err)
		}
		entryID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("error reading inserted transaction id: %w", err)
		}
		for _, posting := range txn.Postings {
			if _, err := postingStmt.Exec(entryID, posting.Account, posting.Amount.Value.String(), posting.Amount.Currency); err != nil {
				return nil, fmt.Errorf("error inserting posting (line %d): %w", txn.SourceLine, err)
			}
		}
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transactions: %w", err)
	}

	s.invalidateCache()

	logger.L.Info("ProcessStatement END", "source", source,
		"transactions", result.TransactionCount, "needsReview", result.ReviewCount,
		"duration", time.Since(overallStartTime))
	return result, nil
}

// invalidateCache clears cached journal views after an import. The next
// request triggers a full recalculation from the database.
func (s *importServiceImpl) invalidateCache() {
	s.reportCache.Delete(ckSummary)
	for _, source := range []string{"", "wechat", "alipay"} {
		s.reportCache.Delete(fmt.Sprintf(ckTransactions, source))
	}
}

// GetTransactions returns the stored journal, in import order. An empty
// source returns all platforms.
func (s *importServiceImpl) GetTransactions(source string) ([]models.NormalizedTransaction, error) {
	cacheKey := fmt.Sprintf(ckTransactions, source)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for GetTransactions", "source", source)
		return cached.([]models.NormalizedTransaction), nil
	}

	rows, err := database.DB.Query(`SELECT id, date, time, payee, narration, tag, flag,
		source_file, source_line, trade_no, merchant_order_no
		FROM normalized_transactions WHERE (? = '' OR source = ?) ORDER BY id ASC`, source, source)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.NormalizedTransaction
	indexByID := make(map[int64]int)
	for rows.Next() {
		var id int64
		var dateStr, timeStr, tag string
		var payee sql.NullString
		var txn models.NormalizedTransaction
		if err := rows.Scan(&id, &dateStr, &timeStr, &payee, &txn.Narration, &tag, &txn.Flag,
			&txn.SourceFile, &txn.SourceLine, &txn.TransactionID, &txn.MerchantOrderID); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		if txn.Date, err = time.Parse(storedDateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("error parsing stored date %q: %w", dateStr, err)
		}
		if payee.Valid {
			txn.Payee = &payee.String
		}
		if tag != "" {
			txn.Tags = []string{tag}
		}
		if timeStr != "" {
			txn.Metadata = map[string]string{"time": timeStr}
		}
		indexByID[id] = len(txns)
		txns = append(txns, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transaction rows: %w", err)
	}

	postingRows, err := database.DB.Query(`SELECT p.entry_id, p.account, p.amount, p.currency
		FROM postings p JOIN normalized_transactions t ON t.id = p.entry_id
		WHERE (? = '' OR t.source = ?) ORDER BY p.id ASC`, source, source)
	if err != nil {
		return nil, fmt.Errorf("error querying postings: %w", err)
	}
	defer postingRows.Close()

	for postingRows.Next() {
		var entryID int64
		var account, amountStr, currency string
		if err := postingRows.Scan(&entryID, &account, &amountStr, &currency); err != nil {
			return nil, fmt.Errorf("error scanning posting row: %w", err)
		}
		value, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored amount %q: %w", amountStr, err)
		}
		idx, ok := indexByID[entryID]
		if !ok {
			continue
		}
		txns[idx].Postings = append(txns[idx].Postings, models.Posting{
			Account: account,
			Amount:  models.Amount{Value: value, Currency: currency},
		})
	}
	if err = postingRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over posting rows: %w", err)
	}

	s.reportCache.Set(cacheKey, txns, DefaultCacheExpiration)
	return txns, nil
}

func (s *importServiceImpl) GetSummary() (*LedgerSummary, error) {
	if cached, found := s.reportCache.Get(ckSummary); found {
		return cached.(*LedgerSummary), nil
	}

	summary := &LedgerSummary{BySource: make(map[string]int)}
	rows, err := database.DB.Query(`SELECT source, flag, COUNT(*) FROM normalized_transactions GROUP BY source, flag`)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var source, flag string
		var count int
		if err := rows.Scan(&source, &flag, &count); err != nil {
			return nil, fmt.Errorf("error scanning summary row: %w", err)
		}
		summary.TransactionCount += count
		summary.BySource[source] += count
		if flag == models.FlagReview {
			summary.ReviewCount += count
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over summary rows: %w", err)
	}

	s.reportCache.Set(ckSummary, summary, DefaultCacheExpiration)
	return summary, nil
}
