package analysis

// BoundCandidate pairs a bound's structural coordinate with its source text.
// The text is carried for reporting only; removal goes through the site.
type BoundCandidate struct {
	Site  BoundSite
	Bound string
}

// Candidates flattens an item's coordinates into the ordered trial list:
// parameter bounds before where bounds, each in ascending positional order.
// Pure and total; an item without bounds yields an empty list.
func Candidates(it Item) []BoundCandidate {
	var out []BoundCandidate
	for _, pb := range it.Params {
		for j, bound := range pb.Bounds {
			out = append(out, BoundCandidate{
				Site: BoundSite{
					Kind:       SiteTypeParam,
					Ident:      pb.Ident,
					ParamIndex: pb.ParamIndex,
					BoundIndex: j,
				},
				Bound: bound,
			})
		}
	}
	for _, wb := range it.Wheres {
		for j, bound := range wb.Bounds {
			out = append(out, BoundCandidate{
				Site: BoundSite{
					Kind:        SiteWhere,
					BoundedType: wb.BoundedType,
					PredIndex:   wb.PredIndex,
					BoundIndex:  j,
				},
				Bound: bound,
			})
		}
	}
	return out
}
