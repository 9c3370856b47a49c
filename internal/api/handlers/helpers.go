package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/propertyhub-api/internal/service"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

const mediaField = "media"

var (
	errInvalidBody   = errors.New("Invalid request body.")
	errMissingFields = errors.New("Missing required fields.")
)

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// respondError maps service errors onto the API's status codes.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidSignature):
		status = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrListingUnavailable):
		status = fiber.StatusNotFound
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// parseJSON decodes a request body strictly: unknown fields and trailing
// data are rejected, then the DTO's validate tags are checked.
func parseJSON(c *fiber.Ctx, v any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errInvalidBody
	}
	if dec.More() {
		return errInvalidBody
	}

	if err := transfer.Validate(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "required" {
			return errMissingFields
		}
		return errInvalidBody
	}
	return nil
}

// readUploads loads the multipart files into memory. A plain form yields no files.
func readUploads(c *fiber.Ctx) ([]transfer.MediaFile, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return nil, errors.New("Unable to parse form.")
	}

	headers := form.File[mediaField]
	files := make([]transfer.MediaFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("Unable to read %s.", fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("Unable to read %s.", fh.Filename)
		}
		files = append(files, transfer.MediaFile{FileName: fh.Filename, Data: data})
	}
	return files, nil
}

func listingInputFromForm(c *fiber.Ctx) (*transfer.ListingInput, error) {
	price, err := formInt(c, "price")
	if err != nil {
		return nil, err
	}
	deposit, err := formInt(c, "deposit")
	if err != nil {
		return nil, err
	}

	return &transfer.ListingInput{
		ListingType:  c.FormValue("listingType"),
		PropertyType: c.FormValue("propertyType"),
		Title:        c.FormValue("title"),
		Price:        price,
		Deposit:      deposit,
		State:        c.FormValue("state"),
		City:         c.FormValue("city"),
		Pincode:      c.FormValue("pincode"),
		Address:      c.FormValue("address"),
		Description:  c.FormValue("description"),
		Amenities:    c.FormValue("amenities"),
		ContactName:  c.FormValue("contactName"),
		ContactPhone: c.FormValue("contactPhone"),
		ContactEmail: c.FormValue("contactEmail"),
	}, nil
}

func formInt(c *fiber.Ctx, key string) (int64, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	// Converting NaN, Inf or anything at or past 2^63 to int64 is undefined.
	if err != nil || math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("Invalid value for %s.", key)
	}
	return int64(v), nil
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("Invalid value for %s.", key)
	}
	return &v, nil
}
