package export

import (
	"strings"

	"github.com/matsen/biporcid/internal/reference"
	"github.com/matsen/biporcid/internal/work"
)

// External identifier types understood by the registry.
const (
	IDTypeDOI   = "doi"
	IDTypePMID  = "pmid"
	IDTypePMC   = "pmc"
	IDTypeArXiv = "arxiv"
)

// NormalizeArXiv strips the "arXiv:" prefix and any abs URL from an arXiv id.
func NormalizeArXiv(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "https://arxiv.org/abs/")
	id = strings.TrimPrefix(id, "http://arxiv.org/abs/")
	if len(id) >= 6 && strings.EqualFold(id[:6], "arxiv:") {
		id = id[6:]
	}
	return id
}

// NormalizePMCID makes sure a PubMed Central id carries its PMC prefix.
func NormalizePMCID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if len(id) >= 3 && strings.EqualFold(id[:3], "pmc") {
		return "PMC" + id[3:]
	}
	return "PMC" + id
}

// ExternalIDs lists the identifiers of ref in registry form, DOI first.
func ExternalIDs(ref reference.Reference) []work.ExternalID {
	var ids []work.ExternalID
	if doi := reference.NormalizeDOI(ref.DOI); doi != "" {
		ids = append(ids, work.ExternalID{
			Type:  IDTypeDOI,
			Value: doi,
			URL:   "https://doi.org/" + doi,
		})
	}
	if pmid := strings.TrimSpace(ref.PMID); pmid != "" {
		ids = append(ids, work.ExternalID{
			Type:  IDTypePMID,
			Value: pmid,
			URL:   "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
		})
	}
	if pmc := NormalizePMCID(ref.PMCID); pmc != "" {
		ids = append(ids, work.ExternalID{
			Type:  IDTypePMC,
			Value: pmc,
			URL:   "https://www.ncbi.nlm.nih.gov/pmc/articles/" + pmc + "/",
		})
	}
	if arxiv := NormalizeArXiv(ref.ArXivID); arxiv != "" {
		ids = append(ids, work.ExternalID{
			Type:  IDTypeArXiv,
			Value: arxiv,
			URL:   "https://arxiv.org/abs/" + arxiv,
		})
	}
	for i := range ids {
		ids[i].Relationship = work.RelationshipSelf
	}
	return ids
}
