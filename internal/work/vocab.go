package work

import "strings"

// DefaultCitationType is applied by SetCitation when no citation type has been stored.
const DefaultCitationType = "formatted-unspecified"

// citationFormats lists the citation-type values of the work 2.0 schema.
var citationFormats = map[string]bool{
	"formatted-unspecified": true,
	"bibtex":                true,
	"ris":                   true,
	"formatted-apa":         true,
	"formatted-harvard":     true,
	"formatted-ieee":        true,
	"formatted-mla":         true,
	"formatted-vancouver":   true,
	"formatted-chicago":     true,
}

// languageCodes holds the ISO 639-1 two-letter codes and the ISO 639-2
// three-letter codes, both bibliographic and terminology forms.
var languageCodes = map[string]bool{}

const iso6391 = `aa ab ae af ak am an ar as av ay az ba be bg bh bi bm bn bo br bs
		ca ce ch co cr cs cu cv cy da de dv dz ee el en eo es et eu fa ff fi fj fo fr fy
		ga gd gl gn gu gv ha he hi ho hr ht hu hy hz ia id ie ig ii ik io is it iu
		ja jv ka kg ki kj kk kl km kn ko kr ks ku kv kw ky la lb lg li ln lo lt lu lv
		mg mh mi mk ml mn mr ms mt my na nb nd ne ng nl nn no nr nv ny oc oj om or os
		pa pi pl ps pt qu rm rn ro ru rw sa sc sd se sg si sk sl sm sn so sq sr ss st
		su sv sw ta te tg th ti tk tl tn to tr ts tt tw ty ug uk ur uz ve vi vo wa wo
		xh yi yo za zh zu`

const iso6392 = `aar abk ace ach ada ady afa afh afr ain aka akk alb ale alg alt amh ang anp
		apa ara arc arg arm arn arp art arw asm ast ath aus ava ave awa aym aze bad
		bai bak bal bam ban baq bas bat bej bel bem ben ber bho bih bik bin bis bla
		bnt bod bos bra bre btk bua bug bul bur byn cad cai car cat cau ceb cel ces
		cha chb che chg chi chk chm chn cho chp chr chu chv chy cmc cnr cop cor cos
		cpe cpf cpp cre crh crp csb cus cym cze dak dan dar day del den deu dgr din
		div doi dra dsb dua dum dut dyu dzo efi egy eka ell elx eng enm epo est eus
		ewe ewo fan fao fas fat fij fil fin fiu fon fra fre frm fro frr frs fry ful
		fur gaa gay gba gem geo ger gez gil gla gle glg glv gmh goh gon gor got grb
		grc gre grn gsw guj gwi hai hat hau haw heb her hil him hin hit hmn hmo hrv
		hsb hun hup hye iba ibo ice ido iii ijo iku ile ilo ina inc ind ine inh ipk
		ira iro isl ita jav jbo jpn jpr jrb kaa kab kac kal kam kan kar kas kat kau
		kaw kaz kbd kha khi khm kho kik kin kir kmb kok kom kon kor kos kpe krc krl
		kro kru kua kum kur kut lad lah lam lao lat lav lez lim lin lit lol loz ltz
		lua lub lug lui lun luo lus mac mad mag mah mai mak mal man mao map mar mas
		may mdf mdr men mga mic min mis mkd mkh mlg mlt mnc mni mno moh mon mos mri
		msa mul mun mus mwl mwr mya myn myv nah nai nap nau nav nbl nde ndo nds nep
		new nia nic niu nld nno nob nog non nor nqo nso nub nwc nya nym nyn nyo nzi
		oci oji ori orm osa oss ota oto paa pag pal pam pan pap pau peo per phi phn
		pli pol pon por pra pro pus que raj rap rar roa roh rom ron rum run rup rus
		sad sag sah sai sal sam san sas sat scn sco sel sem sga sgn shn sid sin sio
		sit sla slk slo slv sma sme smi smj smn smo sms sna snd snk sog som son sot
		spa sqi srd srn srp srr ssa ssw suk sun sus sux swa swe syc syr tah tai tam
		tat tel tem ter tet tgk tgl tha tib tig tir tiv tkl tlh tli tmh tog ton tpi
		tsi tsn tso tuk tum tup tur tut tvl twi tyv udm uga uig ukr umb und urd uzb
		vai ven vie vol vot wak wal war was wel wen wln wol xal xho yao yap yid yor
		ypk zap zbl zen zgh zha zho znd zul zun zxx zza`

func init() {
	for _, c := range strings.Fields(iso6391 + " " + iso6392) {
		languageCodes[c] = true
	}
}

// workTypes lists the work-type values of the work 2.0 schema.
var workTypes = map[string]bool{
	"artistic-performance":           true,
	"book-chapter":                   true,
	"book-review":                    true,
	"book":                           true,
	"conference-abstract":            true,
	"conference-paper":               true,
	"conference-poster":              true,
	"data-set":                       true,
	"dictionary-entry":               true,
	"disclosure":                     true,
	"dissertation":                   true,
	"edited-book":                    true,
	"encyclopedia-entry":             true,
	"invention":                      true,
	"journal-article":                true,
	"journal-issue":                  true,
	"lecture-speech":                 true,
	"license":                        true,
	"magazine-article":               true,
	"manual":                         true,
	"newsletter-article":             true,
	"newspaper-article":              true,
	"online-resource":                true,
	"other":                          true,
	"patent":                         true,
	"registered-copyright":           true,
	"report":                         true,
	"research-technique":             true,
	"research-tool":                  true,
	"spin-off-company":               true,
	"standards-and-policy":           true,
	"supervised-student-publication": true,
	"technical-standard":             true,
	"test":                           true,
	"trademark":                      true,
	"translation":                    true,
	"undefined":                      true,
	"website":                        true,
	"working-paper":                  true,
}

// relationships lists the external-id-relationship values of the work 2.0 schema.
var relationships = map[string]bool{
	RelationshipSelf:   true,
	RelationshipPartOf: true,
}

// Relationship values.
const (
	RelationshipSelf   = "self"
	RelationshipPartOf = "part-of"
)

// IsLanguageCode reports whether code (any case) is an accepted language code.
func IsLanguageCode(code string) bool {
	return languageCodes[strings.ToLower(code)]
}

// IsCitationType reports whether t (any case) is an accepted citation format.
func IsCitationType(t string) bool {
	return citationFormats[strings.ToLower(t)]
}

// IsWorkType reports whether t is a registry work type.
// The Record itself accepts any non-empty type; callers validating input use this.
func IsWorkType(t string) bool {
	return workTypes[t]
}

// IsRelationship reports whether r is a registry external-id relationship.
func IsRelationship(r string) bool {
	return relationships[r]
}
