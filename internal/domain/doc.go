// Package domain models Common Alerting Protocol (CAP) alerts as issued by the
// National Weather Service and other IPAWS originators.
//
// # Data Source
//
// CAP documents are fetched by an upstream collector (ATOM feeds, IPAWS,
// direct pushes) and published verbatim to the Kafka source topic. The
// decoder package turns each document into an [Alert] through the setters
// defined here; this package performs no I/O.
//
// # CAP Conventions
//
// Element structure:
//
//	alert
//	  info*          one per language or audience
//	    resource*
//	    area*
//	      polygon*   "lat,lon lat,lon ..." closed ring, WGS 84
//	      circle*    "lat,lon radius" with radius in kilometers
//	      geocode*   valueName/value pairs (SAME, FIPS6, UGC)
//
// Coordinates are written "lat,lon" but stored as orb points with X as
// longitude. See [geo.NewPoint].
//
// Times are RFC 3339 with an explicit offset ("2024-04-26T15:10:00-05:00")
// and are normalized to UTC.
//
// Lists in <addresses>, <references> and <incidents> are whitespace
// separated. A reference is the "sender,identifier,sent" triple of an earlier
// message; only the identifier is kept.
//
// # Defaults
//
// Missing values that CAP itself defines a fallback for are filled in, not
// reported:
//
//	language     en-US
//	effective    the alert's sent time
//	expires      effective + 24h
//	description  NO DESCRIPTION
//	instruction  NO INSTRUCTIONS
//
// # Diagnostics
//
// Setters never fail. A value that cannot be used (an unknown enumeration, a
// malformed coordinate, bad base64) is dropped and recorded as a [Diagnostic]
// on the owning Alert. Unrecognized enumerations also set [Alert.HasError].
//
// # Relevance
//
// An alert is relevant to a [Watch] when any of its areas names the watch's
// UGC zone or county, carries a FIPS6 code for the watch county, covers the
// watch point with a circle or polygon, or carries the all-US SAME code
// 000000.
package domain
