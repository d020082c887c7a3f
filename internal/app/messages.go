// internal/app/messages.go
package app

import (
	"fmt"
	"strings"
	"time"

	"substitution_notification_bot/internal/domain/substitution"
)

// User-facing texts. The school's community speaks Polish.
const (
	MsgProcessingError = "Wystąpił błąd podczas przetwarzania Twojej prośby."
	MsgChooseDay       = "Wybierz datę: dzisiaj lub jutro."

	msgInvalidGrade             = "Podaj klasę (1-5)"
	msgChooseClass              = "Wybierz swoją klasę z %d roku:"
	msgClassSaved               = "Zapamiętano klasę %s dla użytkownika %s."
	msgUnknownClass             = "Nie ma klasy %s. Użyj komendy /klasa aby wybrać klasę z listy."
	msgNoClassSelected          = "Nie masz wybranej klasy. Użyj komendy /klasa aby ją ustawić."
	msgNoSubstitutionsPublished = "Brak zastępstw na %s."
	msgNoSubstitutionsForClass  = "Brak zastępstw dla klasy %s na %s."
	msgQueryRecordHeader        = "Zastępstwa dla klasy: %s"
	msgNoDetails                = "Brak szczegółów."
	msgNotificationBanner       = "Zastępstwa dla klasy %s na %s:"
)

// FormatNotification builds the automatic message for one member.
// records must already be filtered to className.
func FormatNotification(className string, date time.Time, records []substitution.Record) string {
	day := date.Format(substitution.DateLayout)
	if len(records) == 0 {
		return fmt.Sprintf(msgNoSubstitutionsForClass, className, day)
	}

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		lines := append([]string{r.ClassName}, r.Rows...)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return fmt.Sprintf(msgNotificationBanner, className, day) + "\n" + strings.Join(blocks, "\n\n")
}

// RenderQueryResult turns a query result into the reply shown to the member.
func RenderQueryResult(res QueryResult) string {
	day := res.Date.Format(substitution.DateLayout)

	switch res.Kind {
	case ResultNoClassSelected:
		return msgNoClassSelected
	case ResultNoSubstitutionsPublished:
		return fmt.Sprintf(msgNoSubstitutionsPublished, day)
	case ResultNoSubstitutionsForClass:
		return fmt.Sprintf(msgNoSubstitutionsForClass, res.ClassName, day)
	case ResultFound:
		blocks := make([]string, 0, len(res.Records))
		for _, r := range res.Records {
			details := msgNoDetails
			if len(r.Rows) > 0 {
				details = strings.Join(r.Rows, "\n")
			}
			blocks = append(blocks, fmt.Sprintf(msgQueryRecordHeader, r.ClassName)+"\n"+details)
		}
		return strings.Join(blocks, "\n\n")
	default:
		return MsgProcessingError
	}
}
