package sizing

type size struct {
	vcpus  int
	memory float64
}

// knownSizes covers the common general purpose, burstable, compute, memory and storage
// optimized families.
var knownSizes = map[string]size{
	"Standard_A1_v2":   {1, 2},
	"Standard_A2_v2":   {2, 4},
	"Standard_A4_v2":   {4, 8},
	"Standard_A8_v2":   {8, 16},
	"Standard_A2m_v2":  {2, 16},
	"Standard_A4m_v2":  {4, 32},
	"Standard_B1s":     {1, 1},
	"Standard_B1ms":    {1, 2},
	"Standard_B2s":     {2, 4},
	"Standard_B2ms":    {2, 8},
	"Standard_B4ms":    {4, 16},
	"Standard_B8ms":    {8, 32},
	"Standard_D1_v2":   {1, 3.5},
	"Standard_D2_v2":   {2, 7},
	"Standard_D3_v2":   {4, 14},
	"Standard_D4_v2":   {8, 28},
	"Standard_DS1_v2":  {1, 3.5},
	"Standard_DS2_v2":  {2, 7},
	"Standard_DS3_v2":  {4, 14},
	"Standard_DS4_v2":  {8, 28},
	"Standard_D2_v3":   {2, 8},
	"Standard_D4_v3":   {4, 16},
	"Standard_D8_v3":   {8, 32},
	"Standard_D16_v3":  {16, 64},
	"Standard_D2s_v3":  {2, 8},
	"Standard_D4s_v3":  {4, 16},
	"Standard_D8s_v3":  {8, 32},
	"Standard_D16s_v3": {16, 64},
	"Standard_D32s_v3": {32, 128},
	"Standard_D2s_v4":  {2, 8},
	"Standard_D4s_v4":  {4, 16},
	"Standard_D2s_v5":  {2, 8},
	"Standard_D4s_v5":  {4, 16},
	"Standard_E2_v3":   {2, 16},
	"Standard_E4_v3":   {4, 32},
	"Standard_E8_v3":   {8, 64},
	"Standard_E16_v3":  {16, 128},
	"Standard_E2s_v3":  {2, 16},
	"Standard_E4s_v3":  {4, 32},
	"Standard_E8s_v4":  {8, 64},
	"Standard_F2s_v2":  {2, 4},
	"Standard_F4s_v2":  {4, 8},
	"Standard_F8s_v2":  {8, 16},
	"Standard_F16s_v2": {16, 32},
	"Standard_L8s_v2":  {8, 64},
	"Standard_L16s_v2": {16, 128},
}
