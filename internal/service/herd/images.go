package herd

import "unicode/utf16"

const (
	imageCow1     = "/images/cow1.jpg"
	imageCow2     = "/images/cow2.jpg"
	imageCow3     = "/images/cow3.jpg"
	imageBuffalo1 = "/images/buffalo1.jpg"
)

var breedImages = map[string][]string{
	"Holstein Friesian": {imageCow1, imageCow2},
	"Holstein":          {imageCow1, imageCow2},
	"Jersey":            {imageCow3},
	"Gir":               {imageBuffalo1},
	"Sahiwal":           {imageBuffalo1},
	"Red Sindhi":        {imageCow2},
	"Tharparkar":        {imageCow1},
	"Rathi":             {imageCow3},
}

var defaultImages = []string{imageCow1, imageCow2, imageCow3, imageBuffalo1}

// CattleImage picks a stable picture for an animal: the breed selects the
// candidates and the sum of the rfid's UTF-16 code units selects one of them.
func CattleImage(breed, rfid string) string {
	candidates, ok := breedImages[breed]
	if !ok {
		candidates = defaultImages
	}

	sum := 0
	for _, unit := range utf16.Encode([]rune(rfid)) {
		sum += int(unit)
	}
	return candidates[sum%len(candidates)]
}
