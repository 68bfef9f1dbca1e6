package nycgeo

// UHFZip3 associates one UHF42 code with one ZIP3 prefix. The association is
// many-to-many: a UHF42 zone can span multiple ZIP3 regions and a ZIP3 region
// can cover multiple zones, so aggregation must fan rows out across every
// matching pair before grouping.
type UHFZip3 struct {
	UHF42 int
	Zip3  string
}

// UHFZip3Pairs is the static UHF42 to ZIP3 association table.
var UHFZip3Pairs = []UHFZip3{
	{101, "104"},
	{102, "104"},
	{103, "104"},
	{104, "104"},
	{105, "104"},
	{106, "104"},
	{107, "104"},
	{201, "112"},
	{202, "111"},
	{203, "111"},
	{204, "112"},
	{205, "112"},
	{206, "111"},
	{207, "111"},
	{208, "112"},
	{209, "111"},
	{210, "111"},
	{211, "112"},
	{301, "100"},
	{302, "100"},
	{303, "100"},
	{304, "100"},
	{305, "101"},
	{306, "100"},
	{307, "100"},
	{308, "100"},
	{309, "100"},
	{310, "102"},
	{401, "111"},
	{402, "113"},
	{403, "113"},
	{404, "113"},
	{405, "113"},
	{406, "113"},
	{407, "114"},
	{408, "114"},
	{409, "110"},
	{410, "116"},
	{501, "103"},
	{502, "103"},
	{503, "103"},
	{504, "103"},
}

// Zip3sForUHF returns every ZIP3 prefix associated with a UHF42 code, in
// table order. Unknown codes return nil.
func Zip3sForUHF(code int) []string {
	var zips []string
	for _, p := range UHFZip3Pairs {
		if p.UHF42 == code {
			zips = append(zips, p.Zip3)
		}
	}
	return zips
}
