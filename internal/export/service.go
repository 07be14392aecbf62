package export

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"gorm.io/gorm"

	"github.com/slideforge/slideforge-backend/pkg/config"
	"github.com/slideforge/slideforge-backend/pkg/db"
	"github.com/slideforge/slideforge-backend/pkg/db/models"
	pkgerrors "github.com/slideforge/slideforge-backend/pkg/errors"
)

// ContentType is the OOXML presentation MIME type.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

const (
	slideWidthInches  = 16
	slideHeightInches = 9

	// Editor coordinates are pixels at 96 DPI.
	pixelsPerInch = 96

	defaultFontPoints = 24
)

// Result is a rendered deck ready to stream to the client.
type Result struct {
	Filename string
	Content  []byte
}

// Service renders a presentation tree into a .pptx document.
type Service interface {
	Export(ctx context.Context, userID, presentationID uuid.UUID) (*Result, error)
}

// ServiceParams groups dependencies for the export service.
type ServiceParams struct {
	DB     *db.Client
	Config config.ExportConfig
}

type service struct {
	db *db.Client
}

// NewService builds an export service, registering the unidoc license key
// when one is configured.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if key := strings.TrimSpace(params.Config.UnidocLicenseKey); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set unidoc license")
		}
	}
	return &service{db: params.DB}, nil
}

// Export renders the deck after the ownership check, slides in position order.
func (s *service) Export(ctx context.Context, userID, presentationID uuid.UUID) (*Result, error) {
	deck, err := s.loadOwned(ctx, userID, presentationID)
	if err != nil {
		return nil, err
	}

	ppt := buildDeck(deck)
	defer ppt.Close()

	var buf bytes.Buffer
	if err := ppt.Save(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render pptx")
	}

	return &Result{
		Filename: exportFilename(deck.Title),
		Content:  buf.Bytes(),
	}, nil
}

// buildDeck lays the stored slides onto a 16x9in canvas. SldSz coordinates
// are EMUs, so the inch dimensions go through ToEMU.
func buildDeck(deck *models.Presentation) *presentation.Presentation {
	ppt := presentation.New()
	canvas := ppt.SlideSize()
	canvas.SetSize(presentation.NewSlideScreenSizeWithValue(
		int32(measurement.ToEMU(slideWidthInches*measurement.Inch)),
		int32(measurement.ToEMU(slideHeightInches*measurement.Inch)),
	))

	for _, slide := range deck.Slides {
		pptSlide := ppt.AddSlide()
		for _, element := range slide.Elements {
			if element.ElementType != "text" {
				continue
			}
			addTextBox(pptSlide, element)
		}
	}
	return ppt
}

func addTextBox(slide presentation.Slide, element models.SlideElement) {
	tb := slide.AddTextBox()
	tb.Properties().SetPosition(pxToDistance(element.PosX), pxToDistance(element.PosY))
	tb.Properties().SetSize(pxToDistance(element.Width), pxToDistance(element.Height))

	// python-pptx style word wrap inside the box bounds.
	tb.X().TxBody.BodyPr.WrapAttr = dml.ST_TextWrappingTypeSquare

	run := tb.AddParagraph().AddRun()
	run.SetText(element.Content)

	points := defaultFontPoints
	if element.FontSize != nil && *element.FontSize > 0 {
		points = *element.FontSize
	}
	run.Properties().SetSize(measurement.Distance(points) * measurement.Point)
}

// pxToDistance converts editor pixels to a physical distance at 96 DPI.
func pxToDistance(px int) measurement.Distance {
	return measurement.Distance(float64(px)/pixelsPerInch) * measurement.Inch
}

func exportFilename(title string) string {
	cleaned := strings.TrimSpace(title)
	cleaned = strings.ReplaceAll(cleaned, "/", "_")
	cleaned = strings.ReplaceAll(cleaned, "\\", "_")
	if cleaned == "" {
		cleaned = "presentation"
	}
	return cleaned + ".pptx"
}

func (s *service) loadOwned(ctx context.Context, userID, presentationID uuid.UUID) (*models.Presentation, error) {
	var deck models.Presentation
	err := s.db.DB().WithContext(ctx).
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Slides.Elements").
		First(&deck, "id = ?", presentationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "presentation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load presentation")
	}
	if deck.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "presentation belongs to another user")
	}
	return &deck, nil
}
