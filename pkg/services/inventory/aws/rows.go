package aws

import (
	"strconv"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// hoursPerMonth matches the flat-rate month used when projecting hourly
// rates to MonthlyCostUSD.
const hoursPerMonth = 730

// buildRow shapes one scanned resource into an inventory row. Only
// recognized tag keys are carried over; the Tagged flag is derived from
// core-field completeness at scan time, so a freshly scanned inventory
// obeys the same predicate the engine ratchets on.
func buildRow(id, service, region string, monthlyCost float64, tags map[string]string) map[string]string {
	row := map[string]string{
		domain.ColResourceID:  id,
		domain.ColService:     service,
		domain.ColRegion:      region,
		domain.ColMonthlyCost: strconv.FormatFloat(monthlyCost, 'f', 2, 64),
	}

	for _, field := range domain.TagFields() {
		if v, ok := tags[field]; ok && v != "" {
			row[field] = v
		}
	}

	row[domain.ColTagged] = domain.TaggedYes
	for _, field := range domain.CoreTagFields() {
		if row[field] == "" {
			row[domain.ColTagged] = domain.TaggedNo
			break
		}
	}
	return row
}

// regionFromAZ trims the zone letter off an availability zone name.
func regionFromAZ(az string) string {
	if az == "" {
		return ""
	}
	last := az[len(az)-1]
	if last >= 'a' && last <= 'z' {
		return az[:len(az)-1]
	}
	return az
}
