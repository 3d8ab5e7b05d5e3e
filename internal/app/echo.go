package app

import "github.com/sigurn/crc16"

var modbusTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// checksum returns the CRC-16/MODBUS of b.
func checksum(b []byte) uint16 {
	return crc16.Checksum(b, modbusTable)
}

// verifyEcho compares what the device returned with what was sent.
func verifyEcho(payload, echo []byte) (payloadCRC, echoCRC uint16, match bool) {
	payloadCRC = checksum(payload)
	echoCRC = checksum(echo)
	return payloadCRC, echoCRC, len(payload) == len(echo) && payloadCRC == echoCRC
}
