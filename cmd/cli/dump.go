package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"urlshortener/internal/types"
)

type archive interface {
	CreateAccount(ctx context.Context, username string) error
	ListAccounts(ctx context.Context) ([]types.Account, error)
	ListMappings(ctx context.Context) ([]types.Mapping, error)
	ListClickLogs(ctx context.Context, mappingID string) ([]types.ClickLog, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	SaveMapping(ctx context.Context, m *types.Mapping) error
	SaveClickLog(ctx context.Context, log types.ClickLog) error
}

type dump struct {
	Accounts []types.Account `json:"accounts"`
	Mappings []mappingDump   `json:"mappings"`
}

type mappingDump struct {
	types.Mapping
	ClickLogs []types.ClickLog `json:"click_logs"`
}

func doExport(ctx context.Context, store archive, w io.Writer) error {
	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		return err
	}
	mappings, err := store.ListMappings(ctx)
	if err != nil {
		return err
	}

	out := dump{Accounts: accounts, Mappings: make([]mappingDump, 0, len(mappings))}
	for _, m := range mappings {
		logs, err := store.ListClickLogs(ctx, m.ID)
		if err != nil {
			return err
		}
		out.Mappings = append(out.Mappings, mappingDump{Mapping: m, ClickLogs: logs})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// doImport restores a dump and returns how many mappings were added.
func doImport(ctx context.Context, store archive, r io.Reader) (int, error) {
	var in dump
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return 0, fmt.Errorf("decode dump: %w", err)
	}

	for _, acc := range in.Accounts {
		if err := store.CreateAccount(ctx, acc.Username); err != nil {
			return 0, err
		}
	}

	count := 0
	for _, md := range in.Mappings {
		m := md.Mapping
		exists, err := store.ExistsByCode(ctx, m.ShortCode)
		if err != nil {
			return count, err
		}
		if exists {
			slog.Info("Skipping existing code", "code", m.ShortCode)
			continue
		}
		if err := store.CreateAccount(ctx, m.Owner); err != nil {
			return count, err
		}
		if err := store.SaveMapping(ctx, &m); err != nil {
			slog.Warn("Failed to import mapping", "code", m.ShortCode, "error", err)
			continue
		}
		for _, log := range md.ClickLogs {
			log.MappingID = m.ID
			if err := store.SaveClickLog(ctx, log); err != nil {
				return count, err
			}
		}
		count++
	}
	return count, nil
}
