package rescue

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
)

// Permutation parameters. The trace of one batch of three chained hashes
// occupies BatchHeight rows: a seed row, ten mid-round rows per hash, and a
// closing row holding the full end state of the third hash.
const (
	// StateSize is the permutation width in field elements
	StateSize = 12

	// RateSize is the number of state slots carrying hash input/output
	RateSize = 8

	// CapacitySize is the number of internal-only state slots
	CapacitySize = 4

	// WordSize is the externally visible hash input/output unit
	WordSize = 4

	// NumRounds is the number of Rescue rounds per hash invocation
	NumRounds = 10

	// HashesPerBatch is the number of chained hashes per trace batch
	HashesPerBatch = 3

	// BatchHeight is the number of trace rows spanned by one batch
	BatchHeight = 32
)

// Layer selects one of the two S-box layers of a round
type Layer int

const (
	// LayerForward is the cubing S-box layer
	LayerForward Layer = iota

	// LayerInverse is the cube-root S-box layer
	LayerInverse
)

// Round constants and the MDS matrix are fixed, versioned tables shared by
// prover and verifier. The constants were drawn from a labelled SHA-256
// rejection-sampling stream; the MDS matrix is the Cauchy matrix
// m[i][j] = 1/(i+j+12) over the field, which is invertible because all
// denominators are distinct and nonzero.

var roundConstantsForward = [NumRounds][StateSize]uint64{
	{2238824065943665076, 1499431199394902802, 1834987209582459601, 2259707785651931890, 1707791813027736025, 1975232041474159662, 709121520689049319, 2095347100008755934, 833683947202346601, 858201508625923604, 242880085425356622, 1502109565862275128},
	{822164124701219024, 292857255830411096, 1533187395635497901, 1404315031043261188, 2140424827639020299, 1028724064668296607, 473655760265185027, 1606944315399167013, 2193413849755665880, 626016841437434948, 20894089830220281, 1740268568681049300},
	{1041860616583661809, 1080868881890548374, 1066896722585265009, 264056709420431899, 2048475798600731365, 1809857399554561592, 812571039328409408, 2182076282321786788, 960718132677984455, 1797934675165853248, 356713938689366978, 1531012628502436648},
	{750290502954506894, 2226836865398248615, 2105594574832899786, 1757805566142018201, 3297442344002383, 355659076473718893, 1803173610870144726, 1663962092490187064, 1490226749842884754, 1318784778693667494, 2105804837081180055, 835693043363287937},
	{2194992791886739359, 1757393006983149717, 1425209738798700474, 820879148228494850, 1769927000399552528, 2037683998671119964, 36482880162943168, 1775156971304579993, 51173299669372632, 1856222685286309904, 1010573365043740374, 2266304495348211266},
	{881615453328141835, 2024218543894920778, 1773699369323702289, 321444506974154060, 65057589753633570, 1050513563489075239, 280417325191812617, 810599229699178695, 431113908368658876, 1701710014881340586, 650902850800336386, 1430611969071290307},
	{1610570007809500555, 155879098122239454, 1098600997385609522, 311383054337090524, 2215423940911058484, 2114257648780876505, 764937115503618175, 1586188924951569212, 427579218985634558, 31506175765411303, 389548709140402593, 1252774265662981912},
	{994133814109749273, 396165802108468723, 1495607190126634932, 822935560316428663, 39536847950824852, 702317479613077318, 2201655615808354052, 741958820776285867, 2073615486852293848, 2217104002570598335, 874291920083550044, 1932933338975418384},
	{1860600435791876030, 986154469562650477, 205786558450326406, 1724926079057568649, 679199310844956384, 1425108944314747906, 1265187660689868230, 1564303494974895445, 2178129501941753326, 1901060843764412251, 643109047532642614, 1369930033136425668},
	{435404434691707551, 800197714621316258, 1647036903809775928, 371289263111853507, 1904602520245035806, 727899093660670923, 61122559133973344, 1953737031069328126, 1376437539899836650, 1218687257222375955, 1767449217365563607, 83314305225356445},
}

var roundConstantsInverse = [NumRounds][StateSize]uint64{
	{838603604247650334, 2191067439243202775, 1903136767631930208, 1483011784823256836, 1019586500787677852, 2253797331248084238, 1988747867115014234, 1540549901249498120, 2160129460513929572, 367812624616724892, 878924017650458808, 244212287058911674},
	{2283720048325372833, 2110491598390043374, 856709439108756817, 1605104411415028448, 308691340164096944, 63883486932831764, 1619964687146855367, 1129834378763170609, 367207882918293131, 215803129942840559, 98868078625456089, 541011343017766806},
	{1738442973056089882, 1720303994172870579, 387435285882478877, 656712631358871, 364754514248819350, 1873381060214674336, 770892139556847376, 1250783652733791398, 822609288115901254, 1581801604239022087, 1626188035102717747, 2197006889557420777},
	{758189522855638539, 1516412401177724012, 2160025769248976210, 1442452858371919112, 1484020918388530367, 135039734635618007, 793806994085042692, 712315243506231155, 1542701982340310383, 1855699798288110216, 91810369235608342, 881972277650887842},
	{1756513323170444488, 179364553938596391, 151489581063427753, 1032769194714107219, 1090032348375013676, 305650006201109985, 223847882192044128, 1261547379627089683, 2177844640505726876, 2298159496754548520, 691348383133229407, 738632760136855631},
	{393256081874416315, 1987221205064545430, 1862482312708706243, 1664603750426642143, 1886224840479257047, 1122817881024770160, 2043750368702712855, 1628764073845740628, 690604369140933581, 1387120235191563137, 2070256272999496794, 1126139013889518279},
	{437244325934022296, 1073871085783046850, 402064470280436213, 1513089510435713099, 1890704380074271390, 303263898806347941, 694793753696432357, 2184966123445462084, 1944801780480611029, 1030176151797689748, 2208613810797260540, 1554761886859827926},
	{1644753624510228599, 735612583579950436, 1483332685354777735, 1976684561134928966, 1924234083999553027, 831330956328948299, 1733723808216140076, 1182152233173409185, 2086971618139676812, 541337859877417741, 1226649509748126503, 1277315139467963052},
	{70818303311976954, 2189409848033132385, 1919574357577864043, 971559903850617347, 1072379307570971768, 1070588954767947762, 2079213435749617247, 1524957255725518489, 1630435913069898434, 83037560429813650, 2174245708623634841, 1326088594048723916},
	{96754361413145508, 1604420325337198092, 1563404795679053712, 393709038907405412, 2246601354426304593, 1888327448708366333, 1127697208721053001, 1281142632291179215, 1792172766283442347, 1512557279529992539, 1100809386626597681, 1990013421976363297},
}

var mdsMatrix = [StateSize][StateSize]uint64{
	{1345075138815939926, 2128470549335113729, 164703078222359991, 1998397349097967890, 2161727901668474881, 1085102632994371705, 1665331124248306575, 1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156},
	{2128470549335113729, 164703078222359991, 1998397349097967890, 2161727901668474881, 1085102632994371705, 1665331124248306575, 1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963},
	{164703078222359991, 1998397349097967890, 2161727901668474881, 1085102632994371705, 1665331124248306575, 1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734},
	{1998397349097967890, 2161727901668474881, 1085102632994371705, 1665331124248306575, 1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801},
	{2161727901668474881, 1085102632994371705, 1665331124248306575, 1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050},
	{1085102632994371705, 1665331124248306575, 1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050, 1235273086667699932},
	{1665331124248306575, 1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050, 1235273086667699932, 1828772109917238520},
	{1092241466106176782, 345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050, 1235273086667699932, 1828772109917238520, 999198674548983945},
	{345876464266955981, 109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050, 1235273086667699932, 1828772109917238520, 999198674548983945, 2082696989134358595},
	{109802052148239994, 943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050, 1235273086667699932, 1828772109917238520, 999198674548983945, 2082696989134358595, 2233785498390757377},
	{943299448000789039, 1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050, 1235273086667699932, 1828772109917238520, 999198674548983945, 2082696989134358595, 2233785498390757377, 2166095028742552608},
	{1904826904658598156, 672537569407969963, 1199038409458780734, 2217156822224076801, 1110220749498871050, 1235273086667699932, 1828772109917238520, 999198674548983945, 2082696989134358595, 2233785498390757377, 2166095028742552608, 1695472864053705789},
}

var mdsMatrixInverse = [StateSize][StateSize]uint64{
	{21937379017008, 2305397597569925249, 3977656634952000, 2285159280611289473, 69807873943407600, 2144874350490594113, 259338533002829280, 2013356027816615873, 226677477154728600, 2190705328939209473, 34541329852149120, 2301201177267296513},
	{2305397597569925249, 9100878380770176, 2224168545542025473, 426603674098602000, 860409469931894273, 1038729709819999807, 1512368281701204099, 1501293516269181854, 2168096430668615619, 112049994537398527, 1578973371267814913, 97867101247755840},
	{3977656634952000, 2224168545542025473, 736248944450250000, 751019456302079746, 1597051419776400635, 1815047011342318222, 951361862780198667, 1666409735927996825, 2086646817720782286, 820283805515998730, 2086231938155400254, 1402454468210678273},
	{2285159280611289473, 426603674098602000, 751019456302079746, 1867715910457681016, 2198133237753836063, 2153015246471804763, 881268278803905522, 256291371420856383, 580936888838027173, 1137823515997566477, 1069195989436836368, 227895739608000254},
	{69807873943407600, 860409469931894273, 1597051419776400635, 2198133237753836063, 1751873569236300954, 523981195341377520, 996386044307521530, 942089900631543485, 1339240221422714069, 89072286589551794, 1797485878757430731, 1669527404146174984},
	{2144874350490594113, 1038729709819999807, 1815047011342318222, 2153015246471804763, 523981195341377520, 1709307916493238320, 71088108458154195, 1991411229608667461, 1129751783743578514, 543999567494261213, 277009231653017471, 436843388419437359},
	{259338533002829280, 1512368281701204099, 951361862780198667, 881268278803905522, 996386044307521530, 71088108458154195, 1833578675177475265, 1198543078530085230, 2163866832631100180, 739048653640664497, 1641873596217717616, 1586336337716319517},
	{2013356027816615873, 1501293516269181854, 1666409735927996825, 256291371420856383, 942089900631543485, 1991411229608667461, 1198543078530085230, 1896763977172508412, 1773189481971824674, 1328035844524300330, 233104459623809520, 1340413384807060064},
	{226677477154728600, 2168096430668615619, 2086646817720782286, 580936888838027173, 1339240221422714069, 1129751783743578514, 2163866832631100180, 1773189481971824674, 620558723726231043, 682296990486640879, 422975455554480003, 640821187340876698},
	{2190705328939209473, 112049994537398527, 820283805515998730, 1137823515997566477, 89072286589551794, 543999567494261213, 739048653640664497, 1328035844524300330, 682296990486640879, 88910231970712767, 823038582022931554, 668107727756197651},
	{34541329852149120, 1578973371267814913, 2086231938155400254, 1069195989436836368, 1797485878757430731, 277009231653017471, 1641873596217717616, 233104459623809520, 422975455554480003, 823038582022931554, 1680557738166260483, 2190070953134504965},
	{2301201177267296513, 97867101247755840, 1402454468210678273, 227895739608000254, 1669527404146174984, 436843388419437359, 1586336337716319517, 1340413384807060064, 640821187340876698, 668107727756197651, 2190070953134504965, 1273519707604185600},
}

// Element-typed views of the baked tables, built once at package load
var (
	mds              [StateSize][StateSize]core.Element
	mdsInverse       [StateSize][StateSize]core.Element
	forwardConstants [NumRounds]StateVector
	inverseConstants [NumRounds]StateVector

	// shiftedInverseConstants[r] = mdsInverse * inverseConstants[r]; the
	// constraint system consumes the inverse-layer schedule in this form
	shiftedInverseConstants [NumRounds]StateVector
)

func init() {
	for i := 0; i < StateSize; i++ {
		for j := 0; j < StateSize; j++ {
			mds[i][j] = core.New(mdsMatrix[i][j])
			mdsInverse[i][j] = core.New(mdsMatrixInverse[i][j])
		}
	}
	for r := 0; r < NumRounds; r++ {
		for i := 0; i < StateSize; i++ {
			forwardConstants[r][i] = core.New(roundConstantsForward[r][i])
			inverseConstants[r][i] = core.New(roundConstantsInverse[r][i])
		}
		shiftedInverseConstants[r] = matVec(mdsInverse, inverseConstants[r])
	}
}

// MDSRow returns one row of the MDS diffusion matrix
func MDSRow(i int) [StateSize]core.Element {
	return mds[i]
}

// MDSInverseRow returns one row of the inverse MDS matrix
func MDSInverseRow(i int) [StateSize]core.Element {
	return mdsInverse[i]
}

// RoundConstants returns the additive constants of the requested round for
// one S-box layer. Round indices outside [0, NumRounds) are rejected.
func RoundConstants(round int, layer Layer) (StateVector, error) {
	if round < 0 || round >= NumRounds {
		return StateVector{}, fmt.Errorf("round index %d outside [0, %d)", round, NumRounds)
	}
	switch layer {
	case LayerForward:
		return forwardConstants[round], nil
	case LayerInverse:
		return inverseConstants[round], nil
	default:
		return StateVector{}, fmt.Errorf("unknown S-box layer %d", layer)
	}
}

// ShiftedInverseConstants returns mdsInverse times the inverse-layer
// constants of the requested round, the form the periodic columns carry
func ShiftedInverseConstants(round int) (StateVector, error) {
	if round < 0 || round >= NumRounds {
		return StateVector{}, fmt.Errorf("round index %d outside [0, %d)", round, NumRounds)
	}
	return shiftedInverseConstants[round], nil
}
