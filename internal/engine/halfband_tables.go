package engine

// Half-band kernels indexed by steepness. Each group lists kernels in
// order of increasing attenuation; kernel k of a group carries only the
// odd-indexed taps of a symmetric half-band filter, from the center out.

var halfBandKernels = [...]halfBandGroup{
	{
		attens: []float64{54.5176, 66.3075, 89.5271, 105.2842, 121.0063, 136.6982, 152.3572, 183.7962, 199.4768, 215.1364, 230.7526},
		kernels: [][]float64{
			{0.6172933565097152, -0.1596394562074325, 0.05507337093408631, -0.01460357898993285},
			{0.6206880742490247, -0.16827573634467302, 0.06526301672072117, -0.022483331611592005, 0.005291732668428111},
			{0.6218720234048071, -0.1713284211381637, 0.06901916917876567, -0.025799728312695277, 0.007488011252574167, -0.0012844465869952567},
			{0.6235449413577585, -0.17571220703702045, 0.07452984360396846, -0.030701736822442153, 0.010716755639039573, -0.0027833422930759735, 0.0004111879709387551},
			{0.6248836310795393, -0.1792494260651412, 0.07906815565564056, -0.03490752341549573, 0.013710256799907897, -0.004399114258698793, 0.0010259190163889602, -0.0001327894197933936},
			{0.6259776380402198, -0.18216414325139055, 0.08287910487672673, -0.038563442248249404, 0.016471530499739394, -0.006048910888133523, 0.0017805283804140392, -0.0003753320011272956, 4.3172840558735476e-05},
			{0.6268876758297409, -0.1846076680755942, 0.08612894300048186, -0.04177447414700661, 0.019014801985747346, -0.007687039746586651, 0.0026264590175341853, -0.0007110666028547856, 0.00013645852036179345, -1.4113888783332969e-05},
			{0.6266716770694815, -0.1840715334263588, 0.08552999561083605, -0.04134683146236131, 0.018844831691322637, -0.007712517036539499, 0.0027268674860562087, -0.0007974502850105723, 0.00018116344606360795, -2.8569149754241848e-05, 2.3667022010173616e-06},
			{0.62747849730368, -0.18623616784506747, 0.08840975589846795, -0.04420746882146234, 0.02114917594511538, -0.009255150837111521, 0.003587156217082233, -0.001192316765375022, 0.0003262781218992013, -6.910690251149041e-05, 1.0122897863125124e-05, -7.753187890684617e-07},
			{0.6281641625236732, -0.18809076955230414, 0.09091853986735303, -0.04676550268359931, 0.023287520498995663, -0.010760627245014184, 0.004485392294842568, -0.00164387754269108, 0.0005144131235476498, -0.0001321172568576505, 2.6191319837779187e-05, -3.5802430606313093e-06, 2.54912782706286e-07},
			{0.6287547312092995, -0.18969941936903847, 0.0931260944809604, -0.049067251179869126, 0.025273008851199916, -0.01221864615339329, 0.005404894208558028, -0.002140991954607858, 0.0007425029281292797, -0.00021924542206832172, 5.301580898312509e-05, -9.87430349235982e-06, 1.265039114165022e-06, -8.414667463747495e-08},
		},
	},
	{
		attens: []float64{56.6007, 83.0295, 123.4724, 152.4411, 181.2501, 209.9472, 238.5616},
		kernels: [][]float64{
			{0.5736152585432908, -0.0750920749248279},
			{0.5927703860806691, -0.10851340190268854, 0.01581357047551308},
			{0.6014027754287962, -0.12564483854574138, 0.027446500598038322, -0.0032051079559057435},
			{0.6081864242908893, -0.13981140187175697, 0.03848916405450362, -0.00762188617978531, 0.0007577235813095239},
			{0.6127839227146435, -0.15000053762513338, 0.04757532351136496, -0.012320702802243476, 0.0021462442592348487, -0.0001842509238189294},
			{0.6161037226347895, -0.15767891882524138, 0.05508969117029469, -0.01689575565636606, 0.003941664343821398, -0.0006060362379160467, 4.5632602433393365e-05},
			{0.6186128291446598, -0.1636717945122515, 0.061369861342939716, -0.021184466539006987, 0.005962335751084206, -0.001248309850745409, 0.00017099297537964702, -1.1448313239478885e-05},
		},
	},
	{
		attens: []float64{89.0473, 130.8951, 172.3192, 213.4984, 254.5186},
		kernels: [][]float64{
			{0.5643027801347801, -0.06433806885576338},
			{0.5870640291555145, -0.09936238095867045, 0.012298637065869358},
			{0.5989658613498468, -0.12111680603434927, 0.024763118076458895, -0.002612175813221299},
			{0.6062680828523072, -0.13588224032740795, 0.035544305238309, -0.006512702237728965, 0.0005825544956595077},
			{0.6112017126335124, -0.1465448685375787, 0.04458295929913125, -0.010840543858123995, 0.0017343706485509962, -0.00013363018567985596},
		},
	},
	{
		attens: []float64{54.4754, 113.2139, 167.1447, 220.6519},
		kernels: [][]float64{
			{0.5018890002277545},
			{0.5629515218053804, -0.06295370607019173},
			{0.5862196872875504, -0.09808055165652453, 0.01186086876199708},
			{0.5983502865716359, -0.11999986086623511, 0.024132530854004228, -0.0024829565686819706},
		},
	},
	{
		attens: []float64{66.5391, 137.3173, 203.2997, 268.8550},
		kernels: [][]float64{
			{0.5004710258641663},
			{0.5626129316393357, -0.06261306782662002},
			{0.5860080813939679, -0.09776218588006778, 0.01175410455449303},
			{0.59819599352772, -0.11972157555011861, 0.023977305567947922, -0.002451723545585399},
		},
	},
	{
		attens: []float64{82.4633, 161.4049, 239.4313},
		kernels: [][]float64{
			{0.500075306666429},
			{0.5625282361014603, -0.06252824460804479},
			{0.5859551474467424, -0.09768272515679195, 0.01172757771111723},
		},
	},
	{
		attens: []float64{94.5052, 185.4886, 275.5501},
		kernels: [][]float64{
			{0.5000188252489671},
			{0.5625070592247968, -0.0625070597563784},
			{0.5859419120118738, -0.0976628682669912, 0.011720956255134043},
		},
	},
}

// Kernels for the 1/3 bandwidth variant.
var halfBandThirdKernels = [...]halfBandGroup{
	{
		attens: []float64{66.3726, 90.2546, 126.5507, 150.1839, 173.7068, 197.1454, 220.5199},
		kernels: [][]float64{
			{0.5981135506955148, -0.11793396656733847, 0.020300557211946322},
			{0.6064549925061258, -0.1355549650548117, 0.034022804962365975, -0.004953541859579876},
			{0.6101411505894021, -0.14393081816629907, 0.041760642892852244, -0.008969218323405618, 0.0009987134061834207},
			{0.6143956342054697, -0.1536018782690525, 0.050840891345687034, -0.014053648740561121, 0.0026771286587305727, -0.00025815816044823123},
			{0.6174749347632992, -0.16087373733313212, 0.05826307564140943, -0.018872408173431318, 0.004742137654351369, -0.0008019652961226747, 6.7964807393799e-05},
			{0.6198061094777505, -0.16654070578314714, 0.06441656744173033, -0.023307744348719822, 0.006990915737231244, -0.0015871946293364403, 0.00024017727382382763, -1.8125308241541697e-05},
			{0.6216318895189931, -0.1710811532381094, 0.06958837009560026, -0.027339625080613838, 0.009295446918379177, -0.002553717995955543, 0.0005257229089795102, -7.181335613515492e-05, 4.8802382808892154e-06},
		},
	},
	{
		attens: []float64{71.0965, 115.7707, 152.1535, 188.2914, 224.2705},
		kernels: [][]float64{
			{0.5674854426480631, -0.06776409050943173},
			{0.587936121826672, -0.10070583248877293, 0.012771337947163834},
			{0.5996015560086281, -0.12228154335199336, 0.02543371891769471, -0.0027537562530837154},
			{0.6067685917055434, -0.13689667009876413, 0.03628851263192682, -0.006783885530503535, 0.0006234516767708755},
			{0.611614563419044, -0.14743901958274458, 0.045344160157313275, -0.01120737178092453, 0.0018328497112594935, -0.00014518193006359589},
		},
	},
	{
		attens: []float64{49.4544, 103.1970, 152.1195, 200.6182, 248.8730},
		kernels: [][]float64{
			{0.5033673053143056},
			{0.5633023264814282, -0.06330924717742045},
			{0.5864389111358042, -0.09841159301158309, 0.011972706651483846},
			{0.5985101236391722, -0.1202888523997822, 0.024294521083140615, -0.0025157924156609776},
			{0.605909228820302, -0.13515953438018685, 0.035020857107815606, -0.006325619699046705, 0.0005550681514759879},
		},
	},
	{
		attens: []float64{61.5357, 127.3167, 188.2990, 248.8580},
		kernels: [][]float64{
			{0.5008379423106806},
			{0.5627007437995869, -0.06270117448772634},
			{0.5860629621032323, -0.09784464476512303, 0.011781683046528768},
			{0.5982360124316252, -0.11979368994739022, 0.024017458606412575, -0.0024597810910081913},
		},
	},
	{
		attens: []float64{77.4651, 151.4084, 224.4365},
		kernels: [][]float64{
			{0.5001338889738253},
			{0.5625501960431788, -0.06255022293238106},
			{0.5859688723420108, -0.0977033211130803, 0.011734448777069783},
		},
	},
	{
		attens: []float64{89.5075, 175.4932, 260.5645},
		kernels: [][]float64{
			{0.5000334677626419},
			{0.5625125496409795, -0.06251255132110527},
			{0.5859453433674705, -0.09766801583863982, 0.011722672471262996},
		},
	},
	{
		attens: []float64{101.5490, 199.5761, 296.5185},
		kernels: [][]float64{
			{0.5000083666606494},
			{0.5625031374494346, -0.06250313755443535},
			{0.5859394578696376, -0.09765918685349961, 0.011719728983863425},
		},
	},
}
