package harvester

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/etl"
)

// Portal is one ArcGIS portal whose featured groups are harvested.
// Suffix is appended to every ETL name of the portal.
type Portal struct {
	BaseURL string
	Suffix  string
}

// DefaultPortals are harvested when no portal is configured.
var DefaultPortals = []Portal{
	{BaseURL: arcgis.EsriBaseURL, Suffix: "_EsriHarvester"},
	{BaseURL: arcgis.ArcGISBaseURL, Suffix: "_ArcGisHarvester"},
}

// PortalClient is the portal API needed to discover and harvest groups.
type PortalClient interface {
	etl.Source
	Overview(ctx context.Context) (*arcgis.Overview, error)
}

// ETLName derives the ETL name of a group.
func ETLName(groupTitle, suffix string) string {
	return strings.ReplaceAll(strings.TrimSpace(groupTitle), " ", "-") + suffix
}

// Discover builds one ETL per featured group of the portal. Portals that do
// not list featured groups are asked for their Living Atlas groups instead.
func Discover(ctx context.Context, portal Portal, client PortalClient) ([]*etl.ETL, error) {
	overview, err := client.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overview of %s: %w", portal.BaseURL, err)
	}

	groups := overview.FeaturedGroups
	if len(groups) == 0 || groups[0].ID == "" {
		if overview.LivingAtlasGroupQuery == "" {
			slog.Warn("Discovery: portal lists no groups", "portal", portal.BaseURL)
			return nil, nil
		}
		groups, err = client.GroupsByQuery(ctx, overview.LivingAtlasGroupQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve Living Atlas groups of %s: %w", portal.BaseURL, err)
		}
	}

	seen := make(map[string]bool)
	etls := make([]*etl.ETL, 0, len(groups))
	for _, group := range groups {
		if group.ID == "" {
			continue
		}
		name := ETLName(group.Title, portal.Suffix)
		if seen[name] {
			slog.Warn("Discovery: duplicate group title", "portal", portal.BaseURL, "etl", name, "group", group.ID)
			continue
		}
		seen[name] = true
		etls = append(etls, etl.New(name, portal.BaseURL, group.ID, client))
	}

	slog.Info("Discovery: portal groups found", "portal", portal.BaseURL, "count", len(etls))
	return etls, nil
}

// ParsePortals reads "baseURL=suffix" pairs. A missing suffix is derived from the host.
func ParsePortals(specs []string) ([]Portal, error) {
	portals := make([]Portal, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		baseURL, suffix, _ := strings.Cut(spec, "=")
		baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			return nil, fmt.Errorf("invalid portal %q: base URL must start with http:// or https://", spec)
		}
		suffix = strings.TrimSpace(suffix)
		if suffix == "" {
			host := strings.SplitN(strings.SplitN(baseURL, "://", 2)[1], ".", 2)[0]
			suffix = "_" + host
		}
		portals = append(portals, Portal{BaseURL: baseURL, Suffix: suffix})
	}
	if len(portals) == 0 {
		return DefaultPortals, nil
	}
	return portals, nil
}
