package boothRepository

const (
	queryCreateRecord = `
		INSERT INTO photobooth_data (
			id,
			name,
			email,
			src_image_url,
			trg_image_url,
			created_at
		) VALUES (
			:id,
			:name,
			:email,
			:src_image_url,
			:trg_image_url,
			:created_at
		)
	`

	queryGetRecords = `
		SELECT
			id,
			name,
			email,
			src_image_url,
			trg_image_url,
			created_at
		FROM photobooth_data
		ORDER BY created_at DESC
	`
)
