package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
	"github.com/osse101/CommunityEconomy_Go/internal/validation"
)

// catalogFile is the on-disk shape of a property catalog override
type catalogFile struct {
	Properties []domain.PropertyCatalogEntry `json:"properties" validate:"required,min=1,dive"`
}

// LoadPropertyCatalog reads the catalog override at path. A missing file
// yields the built-in catalog; a present but invalid one is an error.
// The document is checked against its JSON schema before the struct rules.
func LoadPropertyCatalog(path string) (domain.PropertyCatalog, error) {
	slog.Info(LogMsgLoadingCatalog, "path", path)

	if path == "" {
		slog.Info(LogMsgCatalogDefault)
		return domain.DefaultPropertyCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info(LogMsgCatalogDefault)
		return domain.DefaultPropertyCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	if err := validation.NewSchemaValidator().ValidateBytes(data, validation.PropertyCatalogSchema); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidCatalog, err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidCatalog, err)
	}

	catalog := make(domain.PropertyCatalog, len(file.Properties))
	for _, entry := range file.Properties {
		if _, dup := catalog[entry.Name]; dup {
			return nil, fmt.Errorf("%s: %s: %q", ErrMsgInvalidCatalog, ErrMsgDuplicateProperty, entry.Name)
		}
		catalog[entry.Name] = entry
	}

	slog.Info(LogMsgCatalogLoaded, "properties", len(catalog))
	return catalog, nil
}

// SyncSettings makes sure the settings row exists and logs what is live
func SyncSettings(ctx context.Context, store settings.Store) error {
	if err := store.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSettings, err)
	}
	st, err := store.Get(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSettings, err)
	}
	slog.Info(LogMsgSettingsReady,
		"xp_enabled", st.XPEnabled,
		"base_xp_required", st.BaseXPRequired,
		"max_prestige", st.MaxPrestige)
	return nil
}
