package output

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/vsinha/partsmrp/pkg/application/dto"
)

// PickListFilename names an exported pick list after the build it kits,
// e.g. sensor-board-v2-build-7-20240102t150405z.csv
func PickListFilename(list *dto.PickList, at time.Time, format Format) string {
	base := fmt.Sprintf("%s-v%d-build-%d-%s", list.PartNumber, list.Version, list.BuildID, at.UTC().Format("20060102T150405Z"))
	return slug.Make(base) + format.Extension()
}

// ReportFilename names a stand-alone report such as a shortage export
func ReportFilename(name string, at time.Time, format Format) string {
	return slug.Make(fmt.Sprintf("%s-%s", name, at.UTC().Format("20060102T150405Z"))) + format.Extension()
}
