package typesystem

// Names from the built-in DKPro type system.
const (
	DKProSentence = "de.tudarmstadt.ukp.dkpro.core.api.segmentation.type.Sentence"
	DKProToken    = "de.tudarmstadt.ukp.dkpro.core.api.segmentation.type.Token"
	DKProPOS      = "de.tudarmstadt.ukp.dkpro.core.api.lexmorph.type.pos.POS"
	DKProPosValue = DKProPOS + ":PosValue"

	dkproPOSPackage = "de.tudarmstadt.ukp.dkpro.core.api.lexmorph.type.pos."
)

// DKProPOSType returns the full name of a DKPro POS subtype such as "V" or "NN".
func DKProPOSType(short string) string {
	return dkproPOSPackage + short
}
