package ingest

// New Relic infrastructure ingest service. Do not modify.
const (
	IngestPath = "/integrations/aws"
	USHost     = "https://infra-api.newrelic.com"
	EUHost     = "https://infra-api.eu.newrelic.com"
)

// ResolveHost maps a region setting to an ingest host.
// "US" (or empty) and "EU" select the default hosts; any other value is used verbatim.
func ResolveHost(region string) string {
	switch region {
	case "", "US":
		return USHost
	case "EU":
		return EUHost
	default:
		return region
	}
}

// ResolveEndpoint returns the full ingest URL for a region setting.
func ResolveEndpoint(region string) string {
	return ResolveHost(region) + IngestPath
}
