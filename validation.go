package scopedlog

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	const op errors.Op = "scopedlog.validateConfig"
	if cfg == nil {
		return errors.New(op).Msg(errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	if cfg.RelLogFileDir != emptyString && !isSafeRelDir(cfg.RelLogFileDir) {
		return errors.New(op).Msg(errMsgUnsafeLogDir)
	}

	return nil
}

func isSafeRelDir(dir string) bool {
	if filepath.IsAbs(dir) {
		return false
	}
	clean := filepath.Clean(dir)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
