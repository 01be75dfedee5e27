package output

import "strings"

// ElectronBranches lists the electron branch names, prefixed by the collection name
// when persisted ("electrons.pt").
var ElectronBranches = []string{
	"pt", "eta", "phi", "mass", "charge",
	"veto", "loose", "medium", "tight",
	"sieie", "sipip", "hOverE",
	"chIso", "nhIso", "phoIso", "puIso", "isoPUOffset",
	"ecalIso", "hcalIso",
	"chIsoPh", "nhIsoPh", "phIsoPh",
	"matchHLT",
	"tauDecay", "hadDecay", "matchedGen_",
	"superCluster_",
}

// SuperClusterBranches are the branch names of the supercluster collection.
var SuperClusterBranches = []string{"rawPt", "eta", "phi"}

// BranchList is an ordered list of branch selections. An entry "!name"
// disables the branch "name"; any other entry enables it.
type BranchList []string

// Enabled reports whether branch survives the selection. Later entries
// override earlier ones; branches never mentioned are enabled.
func (l BranchList) Enabled(branch string) bool {
	on := true
	for _, sel := range l {
		if name, neg := strings.CutPrefix(sel, "!"); neg {
			if name == branch {
				on = false
			}
		} else if sel == branch {
			on = true
		}
	}
	return on
}

// Resolve returns the enabled "collection.branch" names for a collection.
func (l BranchList) Resolve(collection string, branches []string) []string {
	out := make([]string, 0, len(branches))
	for _, b := range branches {
		full := collection + "." + b
		if l.Enabled(full) {
			out = append(out, full)
		}
	}
	return out
}
