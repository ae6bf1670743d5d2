package raster

import (
	"encoding/xml"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/worldbank/ImageryStorage/model"
)

// SidecarMetadata is archive-level metadata recovered from a GBDX clip
// delivery's XML sidecar
type SidecarMetadata struct {
	CaptureDate string
	OfficialID  string
}

type gbdxSidecarXML struct {
	IMD struct {
		Image struct {
			CatID   string `xml:"CATID"`
			TLCTime string `xml:"TLCTIME"`
		} `xml:"IMAGE"`
	} `xml:"IMD"`
}

// ReadGBDXSidecar looks for the XML sidecar a GBDX clip task delivers next
// to its tiles and recovers the capture date and official catalog ID. The
// date applies to every tile of the delivery, so callers cache it at the
// archive level.
func ReadGBDXSidecar(sourceFolder string) (*SidecarMetadata, error) {
	entries, err := ioutil.ReadDir(sourceFolder)
	if err != nil {
		return nil, fmt.Errorf("could not scan %s for a GBDX sidecar: %v", sourceFolder, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToUpper(entry.Name()), ".XML") {
			continue
		}

		raw, readErr := ioutil.ReadFile(filepath.Join(sourceFolder, entry.Name()))
		if readErr != nil {
			return nil, readErr
		}

		var parsed gbdxSidecarXML
		if xmlErr := xml.Unmarshal(raw, &parsed); xmlErr != nil {
			continue
		}
		if parsed.IMD.Image.TLCTime == "" {
			continue
		}

		date, dateErr := model.ParseGBDXTimestamp(parsed.IMD.Image.TLCTime)
		if dateErr != nil {
			return nil, dateErr
		}
		return &SidecarMetadata{CaptureDate: date, OfficialID: parsed.IMD.Image.CatID}, nil
	}

	return nil, fmt.Errorf("no GBDX sidecar XML found in %s", sourceFolder)
}
