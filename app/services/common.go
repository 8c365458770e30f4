package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialnet/app/logger"
	"socialnet/app/models"
	"socialnet/app/storage"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks input struct tags and wraps failures in models.ErrValidation.
func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is %s", models.ErrValidation, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}

// parseID parses a hex record id; malformed ids are reported as absent records.
func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not a valid id", models.ErrNotFound, hex)
	}
	return id, nil
}

// removeImage deletes a stored image. Failures are logged and swallowed.
func removeImage(ctx context.Context, images storage.ImageStore, log *logger.Logger, prefix, role, filename string) {
	if filename == "" {
		return
	}
	key, err := storage.Key(role, filename)
	if err == nil {
		err = images.Remove(ctx, key)
	}
	if err != nil {
		log.Warnw(prefix+"failed to remove image", "role", role, "filename", filename, "error", err)
	}
}
