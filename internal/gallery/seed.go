package gallery

import "fmt"

// databaseCodes lists the published 1-5-1 patterns: 0000, 000A-000F,
// 00A0-00FF and 0A00.
func databaseCodes() []string {
	codes := []string{"0000"}
	for d := 0xA; d <= 0xF; d++ {
		codes = append(codes, fmt.Sprintf("%04X", d))
	}
	for d := 0xA0; d <= 0xFF; d++ {
		codes = append(codes, fmt.Sprintf("%04X", d))
	}
	return append(codes, "0A00")
}

var styles = []Image{
	{
		Name:        "pulli",
		URL:         "/kolam_gallary/WhatsApp Image 2025-10-02 at 14.33.05.jpeg",
		Title:       "Pulli Kolam",
		Description: "Pulli kolams are defined by a grid of dots from which the pattern is constructed and guided.",
		Link:        "/gallery/pulli",
	},
	{
		Name:        "chikku",
		URL:         "/kolam_gallary/WhatsApp Image 2025-10-02 at 14.31.54.jpeg",
		Title:       "Chikku Kolam",
		Description: "Chikku kolams are continuous line weaves around the dots, creating an intricate, knot-like design.",
	},
	{
		Name:        "kambi",
		URL:         "/kolam_gallary/WhatsApp Image 2025-10-02 at 14.31.55.jpeg",
		Title:       "Kambi Kolam",
		Description: "Kambi kolams use simple straight lines and curves to form freehand geometric shapes.",
	},
	{
		Name:        "rangoli",
		URL:         "/kolam_gallary/WhatsApp Image 2025-10-02 at 14.31.55 (1).jpeg",
		Title:       "Rangoli",
		Description: "The encompassing, colourful art of creating auspicious floor decorations across India.",
	},
}

var pulliPhotos = []string{
	"WhatsApp Image 2025-09-30 at 11.42.07 PM (1).jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.07 PM (2).jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.07 PM (3).jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.07 PM.jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.08 PM (1).jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.08 PM.jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.09 PM (1).jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.09 PM (2).jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.09 PM.jpeg",
	"WhatsApp Image 2025-09-30 at 11.42.10 PM.jpeg",
}

var recreateSamples = []string{"10.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "7.jpg", "8.jpg"}

// RecreateSamples returns the URLs shown as recreate results.
func RecreateSamples() []string {
	urls := make([]string, len(recreateSamples))
	for i, name := range recreateSamples {
		urls[i] = "/rectreate_kolams/" + name
	}
	return urls
}

func seedImages() []Image {
	var out []Image
	for _, code := range databaseCodes() {
		out = append(out, Image{
			Collection: CollectionDatabase,
			Name:       code + ".png",
			URL:        "/kolam/1-5-1/" + code + ".png",
			Title:      code,
			Link:       "/design-kolam?small=" + code,
		})
	}
	for _, im := range styles {
		im.Collection = CollectionStyles
		out = append(out, im)
	}
	for _, name := range pulliPhotos {
		out = append(out, Image{Collection: CollectionPulli, Name: name, URL: "/pulli_kolams/" + name})
	}
	for i, url := range RecreateSamples() {
		out = append(out, Image{Collection: CollectionRecreate, Name: recreateSamples[i], URL: url})
	}
	return out
}
