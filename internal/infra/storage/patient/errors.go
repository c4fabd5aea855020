package patient

import "errors"

var (
	// ErrPatientNotFound возвращается, когда для идентичности нет записи persona
	ErrPatientNotFound = errors.New("patient.repository: patient not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("patient.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("patient.repository: failed to scan row")
)
