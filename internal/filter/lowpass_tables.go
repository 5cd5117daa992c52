package filter

// Attenuation correction tables indexed by the rounded requested attenuation,
// one per transition band tier (wide, medium, narrow). Entries are divided
// by the tier scale before use.
var attenCorrTables = [3][attenCorrCount + 1]int8{
	{
		-127, -127, -125, -125, -122, -119, -115, -110, -104, -97, -91, -82, -75, -24, -16, -6,
		4, 14, 24, 29, 30, 32, 37, 44, 51, 57, 63, 67, 65, 50, 53, 56,
		58, 60, 63, 64, 66, 68, 74, 77, 78, 78, 78, 79, 79, 60, 60, 60,
		61, 59, 52, 47, 41, 36, 30, 24, 17, 9, 0, -8, -10, -11, -14, -13,
		-18, -25, -31, -38, -44, -50, -57, -63, -68, -74, -81, -89, -96, -101, -104, -107,
		-109, -110, -86, -84, -85, -82, -80, -77, -73, -67, -62, -55, -48, -42, -35, -30,
		-20, -11, -2, 5, 6, 6, 7, 11, 16, 21, 26, 34, 41, 46, 49, 52,
		55, 56, 48, 49, 51, 51, 52, 52, 52, 52, 52, 51, 51, 50, 47, 47,
		50, 48, 46, 42, 38, 35, 31, 27, 24, 20, 16, 12, 11, 12, 10, 8,
		4, -1, -6, -11, -16, -19, -17, -21, -24, -27, -32, -34, -37, -38, -40, -41,
		-40, -40, -42, -41, -44, -45, -43, -41, -34, -31, -28, -24, -21, -18, -14, -10,
		-5, -1, 2, 5, 8, 7, 4, 3, 2, 2, 4, 6, 8, 9, 9, 10,
		10, 10, 10, 9, 8, 9, 11, 14, 13, 12, 11, 10, 8, 7, 6, 5,
		3, 2, 2, -1, -1, -3, -3, -4, -4, -5, -4, -6, -7, -9, -5, -1,
		-1, 0, 1, 0, -2, -3, -4, -5, -5, -8, -13, -13, -13, -12, -13, -12,
		-11, -11, -9, -8, -7, -5, -3, -1, 2, 4, 6, 9, 10, 11, 14, 18,
		21, 24, 27, 30, 34, 37, 37, 39, 40,
	},
	{
		-113, -118, -122, -125, -126, -97, -95, -92, -92, -89, -82, -75, -69, -48, -42, -36,
		-30, -22, -14, -5, -2, 1, 6, 13, 22, 28, 35, 41, 48, 55, 56, 56,
		61, 65, 71, 77, 81, 83, 85, 85, 74, 74, 73, 72, 71, 70, 68, 64,
		59, 56, 49, 52, 46, 42, 36, 32, 26, 20, 13, 7, -2, -6, -10, -15,
		-20, -27, -33, -38, -44, -43, -48, -53, -57, -63, -69, -73, -75, -79, -81, -74,
		-76, -77, -77, -78, -81, -80, -80, -78, -76, -65, -62, -59, -56, -51, -48, -44,
		-38, -33, -25, -19, -13, -5, -1, 2, 7, 13, 17, 21, 25, 30, 35, 40,
		45, 50, 53, 56, 57, 55, 58, 59, 62, 64, 67, 67, 68, 68, 62, 61,
		61, 59, 59, 57, 57, 55, 52, 48, 42, 38, 35, 31, 26, 20, 15, 13,
		10, 7, 3, -2, -8, -13, -17, -23, -28, -34, -37, -40, -41, -45, -48, -50,
		-53, -57, -59, -62, -63, -63, -57, -57, -56, -56, -54, -54, -53, -49, -48, -41,
		-38, -33, -31, -26, -23, -18, -12, -9, -7, -7, -3, 0, 5, 9, 14, 16,
		20, 22, 21, 23, 25, 27, 28, 29, 34, 33, 35, 33, 31, 30, 29, 29,
		26, 26, 25, 24, 20, 19, 15, 10, 8, 4, 1, -2, -6, -10, -16, -19,
		-23, -26, -27, -30, -34, -39, -43, -47, -51, -52, -54, -56, -58, -59, -62, -63,
		-66, -65, -65, -64, -59, -57, -54, -52, -48, -44, -42, -37, -32, -22, -17, -10,
		-3, 5, 13, 22, 30, 40, 50, 60, 72,
	},
	{
		-15, -17, -20, -20, -20, -21, -20, -16, -17, -18, -17, -13, -12, -11, -9, -7,
		-5, -4, -1, 1, 3, 4, 5, 6, 7, 9, 9, 10, 10, 10, 11, 11,
		11, 12, 12, 12, 10, 11, 10, 10, 8, 10, 11, 10, 11, 11, 13, 14,
		15, 19, 27, 26, 23, 18, 14, 8, 4, -2, -6, -12, -17, -23, -28, -33,
		-37, -42, -46, -49, -53, -57, -60, -61, -64, -65, -67, -66, -66, -66, -65, -64,
		-61, -59, -56, -52, -48, -42, -38, -31, -27, -19, -13, -7, -1, 8, 14, 22,
		29, 37, 45, 52, 59, 66, 73, 80, 86, 91, 96, 100, 104, 108, 111, 114,
		115, 117, 118, 120, 120, 118, 117, 114, 113, 111, 107, 103, 99, 95, 89, 84,
		78, 72, 66, 60, 52, 44, 37, 30, 21, 14, 6, -3, -11, -18, -26, -34,
		-43, -51, -58, -65, -73, -78, -85, -90, -97, -102, -107, -113, -115, -118, -121, -125,
		-125, -126, -126, -126, -125, -124, -121, -119, -115, -111, -109, -101, -102, -95, -88, -81,
		-73, -67, -63, -54, -47, -40, -33, -26, -18, -11, -5, 2, 8, 14, 19, 25,
		31, 36, 37, 43, 47, 49, 51, 52, 57, 57, 56, 57, 58, 58, 58, 57,
		56, 52, 52, 50, 48, 44, 41, 39, 37, 33, 31, 26, 24, 21, 18, 14,
		11, 8, 4, 2, -2, -5, -7, -9, -11, -13, -15, -16, -18, -19, -20, -23,
		-24, -24, -25, -27, -26, -27, -29, -30, -31, -32, -35, -36, -39, -40, -44, -46,
		-51, -54, -59, -63, -69, -76, -83, -91, -98,
	},
}
