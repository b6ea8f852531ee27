package ingest

// Pre-compressed fixtures for flows that consume bz2 payloads; the stdlib
// can only decompress, so these are baked in rather than built at runtime.

// ordersBz2 is a bz2-compressed two-row order snapshot:
//
//	order 1001: type 34, buy, price 5.5, volume 50/100
//	order 1002: type 34, sell, price 6.1, volume 200/200
var ordersBz2 = []byte{
	0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0x5d, 0x8d,
	0xf9, 0x38, 0x00, 0x00, 0x7f, 0xdb, 0x80, 0x50, 0x10, 0x00, 0x07, 0x7f,
	0xf0, 0x04, 0x10, 0xbf, 0xa7, 0xdf, 0x20, 0x30, 0x00, 0xd8, 0xa8, 0x6a,
	0x69, 0x3d, 0x4d, 0x1e, 0xa3, 0x20, 0x00, 0x03, 0x46, 0x80, 0xc1, 0xa6,
	0x8d, 0x34, 0xc2, 0x62, 0x64, 0xc0, 0x40, 0xd3, 0x04, 0xa6, 0x51, 0x32,
	0x9e, 0x99, 0x51, 0xa6, 0x8f, 0x35, 0x20, 0x64, 0x68, 0x0a, 0x07, 0x9f,
	0x51, 0x9a, 0xe0, 0x6d, 0x05, 0xda, 0x69, 0x9a, 0x1d, 0xa4, 0xe9, 0xea,
	0x9b, 0xca, 0x4b, 0xc1, 0x75, 0x5e, 0x26, 0xc2, 0x9d, 0xc1, 0x23, 0x72,
	0x43, 0x83, 0x05, 0xd8, 0x6c, 0x32, 0x62, 0x24, 0x66, 0x11, 0xa0, 0x8d,
	0x8e, 0x6e, 0xb3, 0x71, 0xb9, 0x95, 0x19, 0x29, 0xb9, 0x4d, 0xca, 0xe4,
	0xa8, 0x6a, 0x48, 0xc4, 0x8c, 0x22, 0x46, 0x09, 0x98, 0x99, 0x61, 0x73,
	0x11, 0xa1, 0x48, 0x64, 0xd9, 0xca, 0xae, 0x3b, 0xc7, 0x12, 0xc9, 0xff,
	0x18, 0x38, 0xbc, 0x7b, 0x16, 0x4f, 0xe2, 0x10, 0x08, 0x40, 0x46, 0x2a,
	0x87, 0xb4, 0x23, 0x7d, 0x20, 0x72, 0x06, 0x97, 0x41, 0x29, 0x68, 0x3a,
	0x14, 0x7e, 0x5b, 0xba, 0xc2, 0x5c, 0x09, 0xa5, 0xc6, 0x38, 0x17, 0x89,
	0xca, 0x38, 0xa1, 0x69, 0xf7, 0xfd, 0x12, 0x82, 0xfd, 0xb5, 0xda, 0xd7,
	0x15, 0xee, 0x32, 0xbc, 0xab, 0x69, 0xca, 0x34, 0xb5, 0x72, 0xac, 0x39,
	0x48, 0x62, 0xa3, 0x95, 0x56, 0x7c, 0xc6, 0x07, 0x36, 0x4f, 0xc5, 0xdc,
	0x91, 0x4e, 0x14, 0x24, 0x17, 0x63, 0x7e, 0x4e, 0x00,
}

// historyRevisedBz2 is a republished version of the same day as historyBz2:
// same (type, region, date) key, average 6.4 and volume 150000 instead of
// the first publication's 5.8 and 123456.
var historyRevisedBz2 = []byte{
	0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0xd1, 0xd6,
	0x66, 0x73, 0x00, 0x00, 0x2c, 0x5b, 0x80, 0x50, 0x10, 0x00, 0x07, 0x7f,
	0xf0, 0x04, 0x10, 0xaf, 0xe7, 0xdf, 0xa0, 0x20, 0x00, 0x74, 0x1a, 0xa9,
	0xf9, 0x27, 0xa6, 0xa9, 0xe9, 0xea, 0x9e, 0xa7, 0x94, 0xf4, 0x9e, 0xa0,
	0x03, 0xd4, 0xf5, 0x18, 0x83, 0x54, 0xc8, 0xf4, 0x41, 0xa0, 0x79, 0x40,
	0x1a, 0x00, 0x06, 0x0b, 0x91, 0xd4, 0x95, 0x55, 0x8a, 0x09, 0xb7, 0x8e,
	0x82, 0xd6, 0xb4, 0x0d, 0x0a, 0x08, 0xe1, 0x02, 0x8e, 0xc1, 0x28, 0x30,
	0x40, 0xed, 0x53, 0x0d, 0x21, 0x20, 0xc0, 0x75, 0xa9, 0xa9, 0x40, 0x10,
	0x63, 0x50, 0x80, 0xd1, 0xd4, 0x2b, 0xda, 0x97, 0xcb, 0x0b, 0x56, 0x3d,
	0x96, 0xc2, 0x8b, 0x7b, 0x5d, 0xb7, 0x2b, 0xdb, 0x3f, 0xba, 0x25, 0xca,
	0x2d, 0x21, 0x21, 0xfb, 0x18, 0x26, 0x09, 0x2d, 0x1c, 0x67, 0x38, 0xb3,
	0xf3, 0xca, 0x9a, 0xc8, 0x62, 0xf3, 0x13, 0xd4, 0x72, 0x23, 0x59, 0xbe,
	0x1b, 0x51, 0xc6, 0x9f, 0xc5, 0xdc, 0x91, 0x4e, 0x14, 0x24, 0x34, 0x75,
	0x99, 0x9c, 0xc0,
}

// historyBz2 is a bz2-compressed one-row daily history file for
// 2026-08-28, type 34 in region 10000002.
var historyBz2 = []byte{
	0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0xf9, 0x3e,
	0x99, 0xf8, 0x00, 0x00, 0x2b, 0xdb, 0x80, 0x10, 0x10, 0x00, 0x07, 0x7f,
	0x70, 0x04, 0x10, 0xaf, 0xe7, 0xdf, 0xa0, 0x20, 0x00, 0x74, 0x1a, 0xa9,
	0xf8, 0xa7, 0x92, 0x9e, 0x12, 0x79, 0x4d, 0xa8, 0xd0, 0x1b, 0x53, 0xd4,
	0x62, 0x0d, 0x51, 0xea, 0x66, 0xa1, 0xea, 0x32, 0x6d, 0x40, 0x00, 0x00,
	0x6d, 0xab, 0x42, 0x39, 0xf4, 0xc8, 0x08, 0xee, 0x1d, 0x02, 0x22, 0x30,
	0xc1, 0x02, 0x8d, 0x22, 0x9a, 0xb1, 0x38, 0xb2, 0x01, 0xa1, 0x54, 0x3c,
	0xa0, 0xac, 0x43, 0x12, 0x84, 0x7a, 0x64, 0x84, 0x41, 0xf2, 0x50, 0x85,
	0x06, 0x06, 0xc7, 0x52, 0xbd, 0xab, 0x7e, 0x98, 0x5b, 0x39, 0x77, 0x75,
	0x85, 0x5d, 0x7b, 0x5e, 0x32, 0x73, 0x47, 0x5f, 0xbb, 0x2d, 0xcb, 0x18,
	0xcc, 0x4c, 0x7e, 0x83, 0xd7, 0x05, 0x9e, 0xc8, 0x67, 0x4c, 0x62, 0xda,
	0xd7, 0x2d, 0xe6, 0x20, 0xc6, 0x29, 0xb8, 0xcc, 0x8d, 0xd4, 0x67, 0xf1,
	0x54, 0x35, 0xfe, 0x2e, 0xe4, 0x8a, 0x70, 0xa1, 0x21, 0xf2, 0x7d, 0x33,
	0xf0,
}
