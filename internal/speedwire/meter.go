package speedwire

import "encoding/binary"

// MeterRecordLength is the serialized size of a MeterRecord.
const MeterRecordLength = 12

// MeterRecord is a single GetDayData sample: a timestamp and a cumulative
// energy reading, both little-endian on the wire (inverter payloads are
// little-endian throughout, unlike the energy-meter sub-protocol).
type MeterRecord struct {
	Timestamp uint32
	EnergyWh  uint64
}

func (r MeterRecord) serialize(c *Cursor) error {
	if err := c.CheckRemaining(MeterRecordLength); err != nil {
		return err
	}
	c.WriteU32(binary.LittleEndian, r.Timestamp)
	c.WriteU64(binary.LittleEndian, r.EnergyWh)
	return nil
}

func deserializeMeterRecord(c *Cursor) (MeterRecord, error) {
	if err := c.CheckRemaining(MeterRecordLength); err != nil {
		return MeterRecord{}, err
	}
	timestamp := c.ReadU32(binary.LittleEndian)
	energyWh := c.ReadU64(binary.LittleEndian)
	return MeterRecord{Timestamp: timestamp, EnergyWh: energyWh}, nil
}
