package ndnb

// DTAG numeric ids for the subset of the schema this codec exercises.
// They are this codec's own assignments: apart from Name (14), they
// differ from the ccnx ccnb dictionary's values (there Component is 15,
// ContentObject 64, Interest 26), so this wire form does not interoperate
// with ccnb encoders.
const (
	DTagName             = 14
	DTagComponent         = 4
	DTagContentObject     = 6
	DTagContent           = 3
	DTagSignature         = 128
	DTagSignatureBits     = 129
	DTagKeyLocator        = 130
	DTagKeyName           = 131
	DTagSignedInfo        = 127
	DTagTimestamp         = 20
	DTagType              = 21
	DTagFreshnessSeconds  = 19
	DTagInterest          = 5
	DTagNonce             = 140
	DTagInterestLifetime  = 141
)
