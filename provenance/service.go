package provenance

import (
	"fmt"
	"net/url"

	"github.com/worldbank/ImageryStorage/util"
)

// DerivedRGBServiceName is the publication catalog's derived RGB mosaic;
// matches against it fill rgbRecordId rather than the primary service fields
const DerivedRGBServiceName = "D_RGB"

// CatalogRecord is one published raster the publication catalog knows about
type CatalogRecord struct {
	RecordID    string `json:"recordId"`
	Path        string `json:"path"`
	ServiceName string `json:"serviceName"`
	Source      string `json:"source"`
}

type catalogResponse struct {
	Records []CatalogRecord `json:"records"`
}

// CatalogClient queries the publication catalog, read-only. The engine
// never mutates the publication service.
type CatalogClient interface {
	PublishedRecords(ctx util.LogContext, sensor string) ([]CatalogRecord, error)
}

// HTTPCatalogClient queries a publication catalog over HTTP
type HTTPCatalogClient struct {
	BaseURL string
}

// NewHTTPCatalogClient builds a client from the environment, or nil when no
// catalog URL is configured (service reconciliation is then skipped)
func NewHTTPCatalogClient() CatalogClient {
	baseURL := util.GetPublicationCatalogURL()
	if baseURL == "" {
		return nil
	}
	return &HTTPCatalogClient{BaseURL: baseURL}
}

// PublishedRecords implements the CatalogClient interface
func (c *HTTPCatalogClient) PublishedRecords(ctx util.LogContext, sensor string) ([]CatalogRecord, error) {
	queryURL := fmt.Sprintf("%s/catalog/%s", c.BaseURL, url.PathEscape(sensor))

	util.LogAudit(ctx, util.LogAuditInput{
		Actor: "anon user", Action: "GET", Actee: queryURL, Message: "Requesting publication catalog records", Severity: util.INFO,
	})
	var response catalogResponse
	if _, err := util.ReqByObjJSON("GET", queryURL, "", nil, &response); err != nil {
		return nil, err
	}
	util.LogAudit(ctx, util.LogAuditInput{
		Actor: queryURL, Action: "GET response", Actee: "anon user", Message: "Retrieved publication catalog records", Severity: util.INFO,
	})

	return response.Records, nil
}
