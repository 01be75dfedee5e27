package output

// ElectronHLTObject indexes the trigger filter categories an electron can be
// matched against.
type ElectronHLTObject int

// Supported trigger filter categories, in persisted order.
const (
	HLTEl23Loose ElectronHLTObject = iota
	HLTEl27Loose
	HLTEl27Tight
	HLTEl35Tight
	HLTPh165HE10
	HLTPh175

	NElectronHLTObjects = 6
)

var electronHLTObjectNames = [NElectronHLTObjects]string{
	"El23Loose",
	"El27Loose",
	"El27Tight",
	"El35Tight",
	"Ph165HE10",
	"Ph175",
}

func (o ElectronHLTObject) String() string {
	if o < 0 || int(o) >= NElectronHLTObjects {
		return "unknown"
	}
	return electronHLTObjectNames[o]
}

// ElectronHLTObjectNames returns the category names in index order.
func ElectronHLTObjectNames() []string {
	return append([]string(nil), electronHLTObjectNames[:]...)
}
